// Package render writes a derived report to a spreadsheet, a CSV file or a
// terminal table. All sinks share one column layout per (period, kind).
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/workattend/wa/pkg/derive"
	"github.com/workattend/wa/pkg/duration"
	"github.com/workattend/wa/pkg/model"
)

// Meta is everything a sink needs besides the report.
type Meta struct {
	// Dir is the reports root. File sinks write beneath it.
	Dir       string
	Generated time.Time
}

// Sink renders a report and returns where it went.
type Sink interface {
	Render(rep *derive.Report, meta Meta) (artifact string, err error)
}

// Column is one numeric column of a report row.
type Column struct {
	Group  string
	Header string
	value  func(derive.PersonReport) int
}

// Layout is the column set and first data row for one kind of report.
type Layout struct {
	Columns  []Column
	FirstRow int
}

type category struct {
	name string
	pick func(derive.Figures) duration.HM
}

type measure struct {
	label string
	pick  func(derive.PersonReport) *derive.Figures
}

var categories = []category{
	{"Work time", func(f derive.Figures) duration.HM { return f.Work }},
	{"Late time", func(f derive.Figures) duration.HM { return f.Late }},
	{"Early time", func(f derive.Figures) duration.HM { return f.Early }},
}

var (
	overall = measure{"Overall", func(p derive.PersonReport) *derive.Figures { return &p.Overall }}
	perDay  = measure{"Avg/day", func(p derive.PersonReport) *derive.Figures { return p.PerDay }}
	perWeek = measure{"Avg/week", func(p derive.PersonReport) *derive.Figures { return p.PerWeek }}
)

// LayoutFor returns the layout used for p and k.
func LayoutFor(p model.Period, k model.ReportKind) Layout {
	measures := []measure{overall}
	first := 8
	if k == model.ReportComplex {
		measures = append(measures, perDay)
		first = 9
		if p == model.PeriodMonth {
			measures = append(measures, perWeek)
			first = 10
		}
	}

	var cols []Column
	for _, c := range categories {
		for _, m := range measures {
			prefix := ""
			if k == model.ReportComplex {
				prefix = m.label + " "
			}
			cols = append(cols,
				Column{Group: c.name, Header: prefix + "h", value: hmPart(c, m, true)},
				Column{Group: c.name, Header: prefix + "m", value: hmPart(c, m, false)},
			)
		}
	}
	return Layout{Columns: cols, FirstRow: first}
}

func hmPart(c category, m measure, hour bool) func(derive.PersonReport) int {
	return func(p derive.PersonReport) int {
		f := m.pick(p)
		if f == nil {
			return 0
		}
		d := c.pick(*f)
		if hour {
			return d.Hour
		}
		return d.Minute
	}
}

// Values returns p's cells in column order, name excluded.
func (l Layout) Values(p derive.PersonReport) []int {
	out := make([]int, len(l.Columns))
	for i, c := range l.Columns {
		out[i] = c.value(p)
	}
	return out
}

// Title is the heading of a report, e.g. "Week Report (5 day(s))".
func Title(rep *derive.Report) string {
	if rep.Kind == model.ReportComplex && rep.Period == model.PeriodMonth {
		return fmt.Sprintf("Month Report (%d day(s), %d workday(s) per week)", rep.DaysCounted, rep.WorkdaysPerWeek)
	}
	return fmt.Sprintf("%s Report (%d day(s))", rep.Period.Title(), rep.DaysCounted)
}

// RangeText renders the covered days as DD/MM/YYYY - DD/MM/YYYY.
func RangeText(rep *derive.Report) string {
	const layout = "02/01/2006"
	return rep.Range.Start.Format(layout) + " - " + rep.Range.End.Format(layout)
}

// ArtifactPath places a report file under root. Week reports live in the
// month directory of their last day.
//
//	<root>/2024/3 - March/Week Reports (Simple)/4-10.xlsx
//	<root>/2024/3 - March/Month Report for March (Complex).xlsx
func ArtifactPath(root string, rep *derive.Report, ext string) string {
	end := rep.Range.End
	monthDir := filepath.Join(root, fmt.Sprintf("%d", end.Year()), fmt.Sprintf("%d - %s", int(end.Month()), end.Month()))
	ext = strings.TrimPrefix(ext, ".")
	if rep.Period == model.PeriodMonth {
		return filepath.Join(monthDir, fmt.Sprintf("Month Report for %s (%s).%s", end.Month(), rep.Kind.Title(), ext))
	}
	return filepath.Join(monthDir,
		fmt.Sprintf("Week Reports (%s)", rep.Kind.Title()),
		fmt.Sprintf("%d-%d.%s", rep.Range.Start.Day(), end.Day(), ext))
}

// ForFormat returns the sink for a --format value. Text output goes to
// stdout unless WithOutput says otherwise.
func ForFormat(format string, opts ...Option) (Sink, error) {
	o := options{log: zerolog.Nop(), out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	switch strings.ToLower(format) {
	case "xlsx", "excel":
		return &XLSX{log: o.log}, nil
	case "csv":
		return &CSV{log: o.log}, nil
	case "text", "table":
		return &Text{W: o.out}, nil
	}
	return nil, &model.InputError{Field: "format", Value: format, Err: model.ErrInvalidInput}
}
