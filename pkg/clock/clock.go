// Package clock supplies the wall-clock time used when an operator enters a
// name without an explicit time.
//
// Production code uses System. Tests seed a Fixed clock and advance it by
// hand, so every "use current time" path is deterministic.
//
// Note: Fixed is not goroutine-safe. The tracker is a single interactive
// loop and never shares a clock between goroutines.
package clock

import "time"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// System reads the host clock in Loc (time.Local when nil).
type System struct {
	Loc *time.Location
}

// Now returns the host time.
func (s System) Now() time.Time {
	if s.Loc == nil {
		return time.Now()
	}
	return time.Now().In(s.Loc)
}

// Fixed is a manually driven clock. Not goroutine-safe; see package doc.
type Fixed struct {
	t time.Time
}

// NewFixed returns a Fixed clock reading t.
func NewFixed(t time.Time) *Fixed { return &Fixed{t: t} }

// Now returns the clock's current value without advancing it.
func (f *Fixed) Now() time.Time { return f.t }

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) { f.t = t }

// Advance moves the clock forward by d and returns the new time.
func (f *Fixed) Advance(d time.Duration) time.Time {
	f.t = f.t.Add(d)
	return f.t
}

// Today returns midnight of c's current day, in c's location.
func Today(c Clock) time.Time {
	now := c.Now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
