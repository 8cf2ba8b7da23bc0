package model

import (
	"fmt"
	"time"

	"github.com/workattend/wa/pkg/duration"
)

// IsEarly reports whether a clock-in at t would be flagged as early.
func (d DayStart) IsEarly(t time.Time) bool { return t.Before(d.At) }

// Offset returns the lateness or earliness of a clock-in at t. Exactly one
// of the returned pointers is non-nil; arriving exactly on time is zero
// lateness.
func (d DayStart) Offset(t time.Time) (late, early *duration.HM) {
	if d.IsEarly(t) {
		e := duration.Between(t, d.At)
		return nil, &e
	}
	l := duration.Between(d.At, t)
	return &l, nil
}

// OpenRecord builds the record for a first clock-in at t.
func OpenRecord(name string, t time.Time, start DayStart) *DailyAttendanceRecord {
	late, early := start.Offset(t)
	at := t
	return &DailyAttendanceRecord{
		Name:         name,
		ClockInEarly: early != nil,
		ClockInText:  t.Format(TimeLayout),
		ClockInAt:    &at,
		Late:         late,
		Early:        early,
	}
}

// CheckClockOut validates a clock-out at t without changing r.
func (r *DailyAttendanceRecord) CheckClockOut(t time.Time, start DayStart) error {
	switch r.State() {
	case StateClosed:
		return ErrAlreadyClosed
	case StateUnseen:
		return fmt.Errorf("clock out %q: %w", r.Name, ErrInvalidClockOut)
	}
	if r.ClockInAt == nil {
		return &MalformedRecordError{Source: r.Name, Field: "clock_in_at", Reason: "open record without clock-in time"}
	}
	if t.Before(start.At) || t.Before(*r.ClockInAt) {
		return ErrInvalidClockOut
	}
	return nil
}

// Close records a clock-out at t. On error r is unchanged.
func (r *DailyAttendanceRecord) Close(t time.Time, start DayStart) error {
	if err := r.CheckClockOut(t, start); err != nil {
		return err
	}
	worked := duration.Between(*r.ClockInAt, t)
	out := t
	r.Worked = &worked
	r.ClockOutAt = &out
	r.ClockOutText = t.Format(TimeLayout)
	r.ClockInAt = nil
	return nil
}

// Offset returns the record's lateness or earliness. The bool is true for
// earliness.
func (r *DailyAttendanceRecord) Offset() (duration.HM, bool) {
	if r.Early != nil {
		return *r.Early, true
	}
	if r.Late != nil {
		return *r.Late, false
	}
	return duration.HM{}, false
}
