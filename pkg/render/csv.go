package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"github.com/workattend/wa/pkg/derive"
	"github.com/workattend/wa/pkg/model"
)

// CSV writes one row per person with a header line. The column set matches
// the spreadsheet layout.
type CSV struct {
	log zerolog.Logger
}

type simpleRow struct {
	Name        string `csv:"name"`
	WorkHour    int    `csv:"work_h"`
	WorkMinute  int    `csv:"work_m"`
	LateHour    int    `csv:"late_h"`
	LateMinute  int    `csv:"late_m"`
	EarlyHour   int    `csv:"early_h"`
	EarlyMinute int    `csv:"early_m"`
}

type weekRow struct {
	Name           string `csv:"name"`
	WorkHour       int    `csv:"work_h"`
	WorkMinute     int    `csv:"work_m"`
	WorkDayHour    int    `csv:"work_day_h"`
	WorkDayMinute  int    `csv:"work_day_m"`
	LateHour       int    `csv:"late_h"`
	LateMinute     int    `csv:"late_m"`
	LateDayHour    int    `csv:"late_day_h"`
	LateDayMinute  int    `csv:"late_day_m"`
	EarlyHour      int    `csv:"early_h"`
	EarlyMinute    int    `csv:"early_m"`
	EarlyDayHour   int    `csv:"early_day_h"`
	EarlyDayMinute int    `csv:"early_day_m"`
}

type monthRow struct {
	Name            string `csv:"name"`
	WorkHour        int    `csv:"work_h"`
	WorkMinute      int    `csv:"work_m"`
	WorkDayHour     int    `csv:"work_day_h"`
	WorkDayMinute   int    `csv:"work_day_m"`
	WorkWeekHour    int    `csv:"work_week_h"`
	WorkWeekMinute  int    `csv:"work_week_m"`
	LateHour        int    `csv:"late_h"`
	LateMinute      int    `csv:"late_m"`
	LateDayHour     int    `csv:"late_day_h"`
	LateDayMinute   int    `csv:"late_day_m"`
	LateWeekHour    int    `csv:"late_week_h"`
	LateWeekMinute  int    `csv:"late_week_m"`
	EarlyHour       int    `csv:"early_h"`
	EarlyMinute     int    `csv:"early_m"`
	EarlyDayHour    int    `csv:"early_day_h"`
	EarlyDayMinute  int    `csv:"early_day_m"`
	EarlyWeekHour   int    `csv:"early_week_h"`
	EarlyWeekMinute int    `csv:"early_week_m"`
}

// Rows returns the typed CSV rows for rep. The concrete element type
// depends on the report's period and kind.
func Rows(rep *derive.Report) any {
	layout := LayoutFor(rep.Period, rep.Kind)
	persons := rep.Rows()
	switch {
	case rep.Kind == model.ReportSimple:
		rows := make([]*simpleRow, 0, len(persons))
		for _, p := range persons {
			v := layout.Values(p)
			rows = append(rows, &simpleRow{p.Name, v[0], v[1], v[2], v[3], v[4], v[5]})
		}
		return rows
	case rep.Period == model.PeriodWeek:
		rows := make([]*weekRow, 0, len(persons))
		for _, p := range persons {
			v := layout.Values(p)
			rows = append(rows, &weekRow{p.Name, v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8], v[9], v[10], v[11]})
		}
		return rows
	default:
		rows := make([]*monthRow, 0, len(persons))
		for _, p := range persons {
			v := layout.Values(p)
			rows = append(rows, &monthRow{p.Name,
				v[0], v[1], v[2], v[3], v[4], v[5],
				v[6], v[7], v[8], v[9], v[10], v[11],
				v[12], v[13], v[14], v[15], v[16], v[17]})
		}
		return rows
	}
}

// Render writes the CSV file under meta.Dir and returns its path.
func (c *CSV) Render(rep *derive.Report, meta Meta) (string, error) {
	path := ArtifactPath(meta.Dir, rep, "csv")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(Rows(rep), file); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	c.log.Info().Str("path", path).Int("rows", len(rep.Persons)).Msg("report saved")
	return path, nil
}
