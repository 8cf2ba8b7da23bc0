// Package session runs the clock-in/clock-out state machine for one day.
//
// A Session owns the day's record set for the lifetime of the interactive
// loop. Every operation either applies fully or leaves the set untouched, so
// a rejected entry is indistinguishable from one never attempted. The set is
// written to the store exactly once, by Flush.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/workattend/wa/pkg/clock"
	"github.com/workattend/wa/pkg/model"
)

// Action is what entering a name would do given the person's current state.
type Action string

const (
	ActionClockIn     Action = "clock_in"
	ActionClockOut    Action = "clock_out"
	ActionAlreadyLeft Action = "already_left"
)

// Saver persists a finished day. store.RecordStore satisfies it.
type Saver interface {
	Put(date time.Time, set *model.DailyRecordSet) error
}

// Session is the live state of one tracked day. Not goroutine-safe.
type Session struct {
	set     *model.DailyRecordSet
	clock   clock.Clock
	log     zerolog.Logger
	flushed bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

// New starts a session over set. The session takes ownership of set.
func New(set *model.DailyRecordSet, c clock.Clock, opts ...Option) (*Session, error) {
	if set == nil {
		return nil, errors.New("session: nil record set")
	}
	if set.DayStart.IsZero() {
		return nil, model.ErrMissingDayStart
	}
	if set.Persons == nil {
		set.Persons = make(map[string]*model.DailyAttendanceRecord)
	}
	s := &Session{set: set, clock: c, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Set returns the day's record set.
func (s *Session) Set() *model.DailyRecordSet { return s.set }

// DayStart returns the configured start of the day.
func (s *Session) DayStart() model.DayStart { return s.set.DayStart }

// Resolve turns an optional explicit time into a timestamp on the session's
// day. A nil tod means the current wall-clock minute, placed on the
// session's day even when that day is not today.
func (s *Session) Resolve(tod *model.TimeOfDay) time.Time {
	if tod == nil {
		now := s.clock.Now().In(s.set.Date.Location())
		return s.set.At(now.Hour(), now.Minute())
	}
	return s.set.At(tod.Hour, tod.Minute)
}

// Next reports what entering name would do.
func (s *Session) Next(name string) Action {
	switch _, st := s.set.Lookup(name); st {
	case model.StateUnseen:
		return ActionClockIn
	case model.StateOpen:
		return ActionClockOut
	default:
		return ActionAlreadyLeft
	}
}

// WouldBeEarly reports whether a clock-in at t must be confirmed as early.
func (s *Session) WouldBeEarly(t time.Time) bool { return s.set.DayStart.IsEarly(t) }

// PreviewClockIn returns the record a clock-in at t would create, without
// storing it.
func (s *Session) PreviewClockIn(name string, t time.Time) (*model.DailyAttendanceRecord, error) {
	if s.Next(name) != ActionClockIn {
		return nil, fmt.Errorf("clock in %q: %w", name, model.ErrAlreadyOpen)
	}
	return model.OpenRecord(name, t, s.set.DayStart), nil
}

// ClockIn records name's arrival at t. An early arrival is accepted only when
// confirmEarly is true; otherwise ErrEarlyNotConfirmed is returned and
// nothing changes.
func (s *Session) ClockIn(name string, t time.Time, confirmEarly bool) (*model.DailyAttendanceRecord, error) {
	rec, err := s.PreviewClockIn(name, t)
	if err != nil {
		return nil, err
	}
	if rec.ClockInEarly && !confirmEarly {
		return nil, model.ErrEarlyNotConfirmed
	}
	s.set.Persons[name] = rec
	s.log.Debug().Str("name", name).Str("at", rec.ClockInText).
		Bool("early", rec.ClockInEarly).Msg("clocked in")
	return rec, nil
}

// PreviewClockOut returns a copy of name's record as it would look after a
// clock-out at t. The stored record is not touched.
func (s *Session) PreviewClockOut(name string, t time.Time) (*model.DailyAttendanceRecord, error) {
	rec, st := s.set.Lookup(name)
	switch st {
	case model.StateUnseen:
		return nil, fmt.Errorf("clock out %q: %w", name, model.ErrUnknownPerson)
	case model.StateClosed:
		return nil, model.ErrAlreadyClosed
	}
	cp := *rec
	if err := cp.Close(t, s.set.DayStart); err != nil {
		return nil, err
	}
	return &cp, nil
}

// ClockOut closes name's record at t. A person who already left yields
// ActionAlreadyLeft with a nil error and no change. An invalid time yields
// ErrInvalidClockOut and no change.
func (s *Session) ClockOut(name string, t time.Time) (*model.DailyAttendanceRecord, Action, error) {
	closed, err := s.PreviewClockOut(name, t)
	if errors.Is(err, model.ErrAlreadyClosed) {
		rec, _ := s.set.Lookup(name)
		return rec, ActionAlreadyLeft, nil
	}
	if err != nil {
		return nil, ActionClockOut, err
	}
	s.set.Persons[name] = closed
	s.log.Debug().Str("name", name).Str("at", closed.ClockOutText).
		Stringer("worked", closed.Worked).Msg("clocked out")
	return closed, ActionClockOut, nil
}

// Present lists the people currently clocked in.
func (s *Session) Present() []string { return s.set.PresentNames() }

// Flush saves the day through st. After one successful write later calls
// return nil, so Flush can sit on every exit path.
func (s *Session) Flush(st Saver) error {
	if s.flushed {
		return nil
	}
	if err := st.Put(s.set.Date, s.set); err != nil {
		return fmt.Errorf("save %s: %w", s.set.Date.Format(model.DateLayout), err)
	}
	s.flushed = true
	s.log.Info().Str("date", s.set.Date.Format(model.DateLayout)).
		Int("persons", len(s.set.Persons)).Msg("day saved")
	return nil
}
