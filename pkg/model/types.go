// Package model defines the core domain types for wa.
//
// A day's attendance is a DailyRecordSet: the configured day start plus one
// DailyAttendanceRecord per person who clocked in that day. Records move
// through a small state machine:
//
//	unseen --clock-in--> open --clock-out--> closed
//
// "unseen" is the absence of a record from the set. A closed record is
// terminal; once the day is saved the set is read-only input for reports.
package model

import (
	"sort"
	"strings"
	"time"

	"github.com/workattend/wa/pkg/duration"
)

// State is the lifecycle position of a record within its day.
type State string

const (
	StateUnseen State = "unseen"
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// TimeLayout is the wall-clock layout used for entered and stored times.
const TimeLayout = "15:04"

// DateLayout identifies a calendar day in store keys and file contents.
const DateLayout = "2006-01-02"

// DailyAttendanceRecord is one person's attendance for one day.
//
// Exactly one of Late and Early is set. ClockInAt is dropped when the record
// closes; ClockInText keeps the entered time for people reading the files.
type DailyAttendanceRecord struct {
	Name         string       `json:"name"`
	ClockInEarly bool         `json:"clock_in_early"`
	ClockInText  string       `json:"clock_in_text"`
	ClockInAt    *time.Time   `json:"clock_in_at,omitempty"`
	Late         *duration.HM `json:"late,omitempty"`
	Early        *duration.HM `json:"early,omitempty"`
	ClockOutText string       `json:"clock_out_text,omitempty"`
	ClockOutAt   *time.Time   `json:"clock_out_at,omitempty"`
	Worked       *duration.HM `json:"worked,omitempty"`
}

// State reports whether the record is open or closed.
func (r *DailyAttendanceRecord) State() State {
	if r == nil {
		return StateUnseen
	}
	if r.Worked != nil {
		return StateClosed
	}
	return StateOpen
}

// Present reports whether the person is clocked in and has not left.
func (r *DailyAttendanceRecord) Present() bool { return r.State() == StateOpen }

// DayStart is the configured start of a working day. Lateness and earliness
// are measured against At.
type DayStart struct {
	At time.Time `json:"at"`
}

// Hour returns the configured start hour.
func (d DayStart) Hour() int { return d.At.Hour() }

// Minute returns the configured start minute.
func (d DayStart) Minute() int { return d.At.Minute() }

// Text returns the start time as HH:MM.
func (d DayStart) Text() string { return d.At.Format(TimeLayout) }

// IsZero reports whether no day start has been configured.
func (d DayStart) IsZero() bool { return d.At.IsZero() }

// DailyRecordSet holds every record for one calendar day. The day start is a
// field of its own and never appears among Persons.
type DailyRecordSet struct {
	Date     time.Time                         `json:"date"`
	DayStart DayStart                          `json:"day_start"`
	Persons  map[string]*DailyAttendanceRecord `json:"persons"`
}

// NewDailyRecordSet returns an empty set for date, starting the day at
// hour:minute in date's location.
func NewDailyRecordSet(date time.Time, hour, minute int) *DailyRecordSet {
	y, m, d := date.Date()
	return &DailyRecordSet{
		Date:     time.Date(y, m, d, 0, 0, 0, 0, date.Location()),
		DayStart: DayStart{At: time.Date(y, m, d, hour, minute, 0, 0, date.Location())},
		Persons:  make(map[string]*DailyAttendanceRecord),
	}
}

// Lookup returns the record for name and its state. The record is nil when
// the state is StateUnseen.
func (s *DailyRecordSet) Lookup(name string) (*DailyAttendanceRecord, State) {
	r, ok := s.Persons[name]
	if !ok {
		return nil, StateUnseen
	}
	return r, r.State()
}

// Names returns every person in the set in lexicographic order.
func (s *DailyRecordSet) Names() []string {
	names := make([]string, 0, len(s.Persons))
	for n := range s.Persons {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PresentNames returns, in lexicographic order, the people clocked in who
// have not yet clocked out.
func (s *DailyRecordSet) PresentNames() []string {
	var out []string
	for _, n := range s.Names() {
		if s.Persons[n].Present() {
			out = append(out, n)
		}
	}
	return out
}

// At places a wall-clock time on the set's day.
func (s *DailyRecordSet) At(hour, minute int) time.Time {
	y, m, d := s.Date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, s.Date.Location())
}

// Period selects the date range a report covers.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts "week"/"w" and "month"/"m" in any case.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "week":
		return PeriodWeek, nil
	case "m", "month":
		return PeriodMonth, nil
	}
	return "", &InputError{Field: "period", Value: s, Err: ErrInvalidInput}
}

// Title returns "Week" or "Month".
func (p Period) Title() string {
	if p == PeriodMonth {
		return "Month"
	}
	return "Week"
}

// ReportKind selects totals only (simple) or totals plus averages (complex).
type ReportKind string

const (
	ReportSimple  ReportKind = "simple"
	ReportComplex ReportKind = "complex"
)

// ParseReportKind accepts "simple"/"s" and "complex"/"c" in any case.
func ParseReportKind(s string) (ReportKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "simple":
		return ReportSimple, nil
	case "c", "complex":
		return ReportComplex, nil
	}
	return "", &InputError{Field: "kind", Value: s, Err: ErrInvalidInput}
}

// Title returns "Simple" or "Complex".
func (k ReportKind) Title() string {
	if k == ReportComplex {
		return "Complex"
	}
	return "Simple"
}

// TimeOfDay is an explicit HH:MM entered by the operator.
type TimeOfDay struct {
	Hour   int `validate:"min=0,max=23"`
	Minute int `validate:"min=0,max=59"`
}

func (t TimeOfDay) String() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format(TimeLayout)
}
