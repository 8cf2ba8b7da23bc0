package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/workattend/wa/pkg/derive"
	"github.com/workattend/wa/pkg/duration"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Text prints the report as a table. Each h/m column pair of the layout is
// shown as one duration cell.
type Text struct {
	W io.Writer
}

// Render writes the table to t.W and returns "stdout".
func (t *Text) Render(rep *derive.Report, meta Meta) (string, error) {
	if t.W == nil {
		return "", errors.New("text sink has no output")
	}
	layout := LayoutFor(rep.Period, rep.Kind)

	headers := []string{"Name"}
	for i := 0; i < len(layout.Columns); i += 2 {
		c := layout.Columns[i]
		label := strings.Fields(c.Group)[0]
		if m := strings.TrimSuffix(strings.TrimSuffix(c.Header, "h"), " "); m != "" {
			label += " " + m
		}
		headers = append(headers, label)
	}

	var rows [][]string
	for _, p := range rep.Rows() {
		v := layout.Values(p)
		row := []string{p.Name}
		for i := 0; i < len(v); i += 2 {
			row = append(row, duration.HM{Hour: v[i], Minute: v[i+1]}.String())
		}
		rows = append(rows, row)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			}
			return numberStyle
		})

	if _, err := fmt.Fprintf(t.W, "%s\n%s\n%s\n", Title(rep), RangeText(rep), tbl.Render()); err != nil {
		return "", err
	}
	return "stdout", nil
}
