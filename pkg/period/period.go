// Package period resolves the inclusive date range a report covers.
package period

import (
	"fmt"
	"time"

	"github.com/workattend/wa/pkg/model"
)

// Range is an inclusive span of calendar days. Start and End are midnights.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewRange returns the range from start to end inclusive, truncated to days.
func NewRange(start, end time.Time) (Range, error) {
	r := Range{Start: midnight(start), End: midnight(end)}
	if r.End.Before(r.Start) {
		return Range{}, fmt.Errorf("range end %s before start %s",
			r.End.Format(model.DateLayout), r.Start.Format(model.DateLayout))
	}
	return r, nil
}

// For returns the week (Monday..Sunday) or month containing date.
func For(p model.Period, date time.Time) Range {
	d := midnight(date)
	if p == model.PeriodMonth {
		first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
		return Range{Start: first, End: first.AddDate(0, 1, -1)}
	}
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	start := d.AddDate(0, 0, -offset)
	return Range{Start: start, End: start.AddDate(0, 0, 6)}
}

// Days returns every day in r in chronological order.
func (r Range) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Len returns the number of days in r.
func (r Range) Len() int { return len(r.Days()) }

// Split returns [Start, mid] and [mid+1, End]. mid must satisfy
// Start <= mid < End.
func (r Range) Split(mid time.Time) (Range, Range, error) {
	mid = midnight(mid)
	if mid.Before(r.Start) || !mid.Before(r.End) {
		return Range{}, Range{}, fmt.Errorf("split point %s outside %s", mid.Format(model.DateLayout), r)
	}
	return Range{Start: r.Start, End: mid}, Range{Start: mid.AddDate(0, 0, 1), End: r.End}, nil
}

func (r Range) String() string {
	return r.Start.Format(model.DateLayout) + ".." + r.End.Format(model.DateLayout)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
