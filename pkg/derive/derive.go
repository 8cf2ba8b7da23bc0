// Package derive turns aggregated sums into the figures a report shows:
// overall totals and, for complex reports, per-day and per-week averages.
//
// Averages always divide the overall totals, hour and minute independently.
// The per-week average is not derived from the per-day one.
package derive

import (
	"errors"
	"fmt"
	"sort"

	"github.com/workattend/wa/pkg/aggregate"
	"github.com/workattend/wa/pkg/duration"
	"github.com/workattend/wa/pkg/model"
	"github.com/workattend/wa/pkg/period"
)

// DefaultWorkdaysPerWeek is used when Options leaves WorkdaysPerWeek zero.
const DefaultWorkdaysPerWeek = 5

// ErrNoDays is returned when averages are requested over zero observed days.
var ErrNoDays = errors.New("no observed days to average over")

// Figures groups the three tracked categories.
type Figures struct {
	Work  duration.HM `json:"work"`
	Late  duration.HM `json:"late"`
	Early duration.HM `json:"early"`
}

func (f Figures) div(n float64) Figures {
	return Figures{Work: f.Work.Div(n), Late: f.Late.Div(n), Early: f.Early.Div(n)}
}

// PersonReport is one row of a report.
type PersonReport struct {
	Name    string   `json:"name"`
	Overall Figures  `json:"overall"`
	PerDay  *Figures `json:"per_day,omitempty"`
	PerWeek *Figures `json:"per_week,omitempty"`
}

// Report is the finished, read-only result handed to a renderer.
type Report struct {
	Period          model.Period             `json:"period"`
	Kind            model.ReportKind         `json:"kind"`
	Range           period.Range             `json:"range"`
	DaysCounted     int                      `json:"days_counted"`
	WorkdaysPerWeek int                      `json:"workdays_per_week"`
	Persons         map[string]*PersonReport `json:"persons"`
}

// Rows returns the report's people sorted by name.
func (r *Report) Rows() []PersonReport {
	names := make([]string, 0, len(r.Persons))
	for n := range r.Persons {
		names = append(names, n)
	}
	sort.Strings(names)
	rows := make([]PersonReport, 0, len(names))
	for _, n := range names {
		rows = append(rows, *r.Persons[n])
	}
	return rows
}

// Options selects what Derive computes.
type Options struct {
	Period          model.Period
	Kind            model.ReportKind
	Range           period.Range
	WorkdaysPerWeek int
}

// Derive computes the report for acc.
func Derive(acc *aggregate.Accumulator, opt Options) (*Report, error) {
	if opt.WorkdaysPerWeek == 0 {
		opt.WorkdaysPerWeek = DefaultWorkdaysPerWeek
	}
	if opt.WorkdaysPerWeek < 0 {
		return nil, fmt.Errorf("workdays per week must be positive, got %d", opt.WorkdaysPerWeek)
	}
	rep := &Report{
		Period:          opt.Period,
		Kind:            opt.Kind,
		Range:           opt.Range,
		DaysCounted:     acc.DaysCounted,
		WorkdaysPerWeek: opt.WorkdaysPerWeek,
		Persons:         make(map[string]*PersonReport, len(acc.Persons)),
	}
	withAverages := opt.Kind == model.ReportComplex
	if withAverages && len(acc.Persons) > 0 && acc.DaysCounted < 1 {
		return nil, ErrNoDays
	}

	for name, s := range acc.Persons {
		pr := &PersonReport{
			Name: name,
			Overall: Figures{
				Work:  duration.Normalize(s.Work.Hour, s.Work.Minute),
				Late:  duration.Normalize(s.Late.Hour, s.Late.Minute),
				Early: duration.Normalize(s.Early.Hour, s.Early.Minute),
			},
		}
		if withAverages {
			perDay := pr.Overall.div(float64(acc.DaysCounted))
			pr.PerDay = &perDay
			if opt.Period == model.PeriodMonth {
				weeks := float64(acc.DaysCounted) / float64(opt.WorkdaysPerWeek)
				perWeek := pr.Overall.div(weeks)
				pr.PerWeek = &perWeek
			}
		}
		rep.Persons[name] = pr
	}
	return rep, nil
}
