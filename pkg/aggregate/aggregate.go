// Package aggregate folds stored day record sets into per-person sums.
//
// DaysCounted is a range-wide figure: the number of days in the range for
// which any record set exists. Every person's averages are later divided by
// it, including people who were absent on some of those days.
package aggregate

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/workattend/wa/pkg/duration"
	"github.com/workattend/wa/pkg/model"
	"github.com/workattend/wa/pkg/period"
)

// Source yields the record set stored for a day, or model.ErrNotFound.
type Source interface {
	Get(date time.Time) (*model.DailyRecordSet, error)
}

// Sums are one person's running totals. Each field stays normalized.
type Sums struct {
	Work  duration.HM `json:"work"`
	Late  duration.HM `json:"late"`
	Early duration.HM `json:"early"`
}

// Add folds o into s.
func (s *Sums) Add(o Sums) {
	s.Work = s.Work.Add(o.Work)
	s.Late = s.Late.Add(o.Late)
	s.Early = s.Early.Add(o.Early)
}

// Accumulator is the result of walking a date range.
type Accumulator struct {
	DaysCounted int              `json:"days_counted"`
	Missing     []time.Time      `json:"missing,omitempty"`
	Persons     map[string]*Sums `json:"persons"`
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{Persons: make(map[string]*Sums)}
}

// AddDay counts set as an observed day and adds every person's worked time
// and lateness or earliness.
func (a *Accumulator) AddDay(set *model.DailyRecordSet) {
	a.DaysCounted++
	for name, rec := range set.Persons {
		s, ok := a.Persons[name]
		if !ok {
			s = &Sums{}
			a.Persons[name] = s
		}
		if rec.Worked != nil {
			s.Work = s.Work.Add(*rec.Worked)
		}
		if off, early := rec.Offset(); early {
			s.Early = s.Early.Add(off)
		} else {
			s.Late = s.Late.Add(off)
		}
	}
}

// Merge returns the fold of a and b, as if both ranges had been walked in
// one pass. Neither input is modified.
func Merge(a, b *Accumulator) *Accumulator {
	out := NewAccumulator()
	for _, src := range []*Accumulator{a, b} {
		out.DaysCounted += src.DaysCounted
		out.Missing = append(out.Missing, src.Missing...)
		for name, s := range src.Persons {
			dst, ok := out.Persons[name]
			if !ok {
				dst = &Sums{}
				out.Persons[name] = dst
			}
			dst.Add(*s)
		}
	}
	return out
}

// Names returns the accumulated people in lexicographic order.
func (a *Accumulator) Names() []string {
	names := make([]string, 0, len(a.Persons))
	for n := range a.Persons {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Aggregator reads day sets from a Source.
type Aggregator struct {
	src Source
	log zerolog.Logger
}

// New returns an Aggregator over src.
func New(src Source, log zerolog.Logger) *Aggregator {
	return &Aggregator{src: src, log: log}
}

// Run walks r day by day, start to end. Missing days are logged and skipped.
// A day stored without a start time, or that cannot be decoded, aborts the
// run.
func (g *Aggregator) Run(r period.Range) (*Accumulator, error) {
	acc := NewAccumulator()
	for _, day := range r.Days() {
		key := day.Format(model.DateLayout)
		set, err := g.src.Get(day)
		if errors.Is(err, model.ErrNotFound) {
			g.log.Warn().Str("date", key).Msg("missing day file")
			acc.Missing = append(acc.Missing, day)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if set.DayStart.IsZero() {
			return nil, fmt.Errorf("read %s: %w", key, model.ErrMissingDayStart)
		}
		g.log.Debug().Str("date", key).Int("persons", len(set.Persons)).Msg("reading day")
		acc.AddDay(set)
	}
	g.log.Info().Str("range", r.String()).Int("days_counted", acc.DaysCounted).
		Int("missing", len(acc.Missing)).Int("persons", len(acc.Persons)).Msg("aggregated")
	return acc, nil
}
