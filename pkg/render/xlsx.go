package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/workattend/wa/pkg/derive"
	"github.com/workattend/wa/pkg/model"
)

type options struct {
	log zerolog.Logger
	out io.Writer
}

// Option configures a sink built by ForFormat.
type Option func(*options)

// WithLogger sets the logger file sinks report saves to.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

// WithOutput sets where the text sink writes.
func WithOutput(w io.Writer) Option { return func(o *options) { o.out = w } }

// XLSX writes an Excel workbook with one sheet.
type XLSX struct {
	log zerolog.Logger
}

// Render saves the workbook under meta.Dir and returns its path.
func (x *XLSX) Render(rep *derive.Report, meta Meta) (string, error) {
	f, err := Workbook(rep, meta)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := ArtifactPath(meta.Dir, rep, "xlsx")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	x.log.Info().Str("path", path).Int("rows", len(rep.Persons)).Msg("report saved")
	return path, nil
}

// SheetName is the name of the single sheet in a report workbook.
func SheetName(p model.Period) string { return p.Title() + " Report" }

// Workbook builds the report workbook in memory.
//
// Row 1 holds the title, row 2 the covered dates and row 3 the generation
// time. Column headers sit directly above the first data row; complex
// reports add a merged category row above those.
func Workbook(rep *derive.Report, meta Meta) (*excelize.File, error) {
	layout := LayoutFor(rep.Period, rep.Kind)
	sheet := SheetName(rep.Period)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	set := func(col, row int, v any) {
		if err != nil {
			return
		}
		var cell string
		if cell, err = excelize.CoordinatesToCellName(col, row); err == nil {
			err = f.SetCellValue(sheet, cell, v)
		}
	}

	set(1, 1, Title(rep))
	set(1, 2, RangeText(rep))
	if !meta.Generated.IsZero() {
		set(1, 3, "Generated "+meta.Generated.Format("02/01/2006 15:04"))
	}

	headerRow := layout.FirstRow - 1
	set(1, headerRow, "Name")
	for i, c := range layout.Columns {
		set(i+2, headerRow, c.Header)
	}
	if rep.Kind == model.ReportComplex {
		groupRow := headerRow - 1
		width := len(layout.Columns) / len(categories)
		for g, c := range categories {
			first := 2 + g*width
			set(first, groupRow, c.name)
			if err == nil {
				err = mergeRow(f, sheet, groupRow, first, first+width-1)
			}
		}
		if err == nil {
			err = styleRow(f, sheet, groupRow, len(layout.Columns)+1, bold)
		}
	}
	if err == nil {
		err = styleRow(f, sheet, headerRow, len(layout.Columns)+1, bold)
	}

	for i, p := range rep.Rows() {
		row := layout.FirstRow + i
		set(1, row, p.Name)
		for j, v := range layout.Values(p) {
			set(j+2, row, v)
		}
	}
	if err == nil {
		err = f.SetColWidth(sheet, "A", "A", 24)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	return f, nil
}

func mergeRow(f *excelize.File, sheet string, row, from, to int) error {
	a, err := excelize.CoordinatesToCellName(from, row)
	if err != nil {
		return err
	}
	b, err := excelize.CoordinatesToCellName(to, row)
	if err != nil {
		return err
	}
	return f.MergeCell(sheet, a, b)
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	a, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	b, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, a, b, style)
}
