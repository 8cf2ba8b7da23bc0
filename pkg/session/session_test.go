package session

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/workattend/wa/pkg/clock"
	"github.com/workattend/wa/pkg/duration"
	"github.com/workattend/wa/pkg/model"
)

var day = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, now time.Time) (*Session, *clock.Fixed) {
	t.Helper()
	c := clock.NewFixed(now)
	s, err := New(model.NewDailyRecordSet(day, 9, 0), c)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, c
}

func tod(h, m int) *model.TimeOfDay { return &model.TimeOfDay{Hour: h, Minute: m} }

type memSaver struct {
	calls int
	err   error
	saved *model.DailyRecordSet
}

func (m *memSaver) Put(_ time.Time, set *model.DailyRecordSet) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.saved = set
	return nil
}

func TestNew_RequiresDayStart(t *testing.T) {
	_, err := New(&model.DailyRecordSet{Date: day}, clock.NewFixed(day))
	if !errors.Is(err, model.ErrMissingDayStart) {
		t.Fatalf("New without day start: err = %v", err)
	}
}

func TestSimpleDay(t *testing.T) {
	s, _ := newTestSession(t, day.Add(9*time.Hour+15*time.Minute))

	if a := s.Next("Alice"); a != ActionClockIn {
		t.Fatalf("Next = %s, want clock_in", a)
	}
	rec, err := s.ClockIn("Alice", s.Resolve(nil), false)
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if *rec.Late != (duration.HM{Hour: 0, Minute: 15}) {
		t.Fatalf("Late = %v, want 0h15m", *rec.Late)
	}

	if a := s.Next("Alice"); a != ActionClockOut {
		t.Fatalf("Next = %s, want clock_out", a)
	}
	rec, action, err := s.ClockOut("Alice", s.Resolve(tod(17, 30)))
	if err != nil || action != ActionClockOut {
		t.Fatalf("ClockOut: %v %s", err, action)
	}
	if *rec.Worked != (duration.HM{Hour: 8, Minute: 15}) {
		t.Fatalf("Worked = %v, want 8h15m", *rec.Worked)
	}
}

func TestEarlyArrival(t *testing.T) {
	s, _ := newTestSession(t, day.Add(8*time.Hour))
	at := s.Resolve(tod(8, 40))
	if !s.WouldBeEarly(at) {
		t.Fatal("08:40 should be early")
	}

	if _, err := s.ClockIn("Bob", at, false); !errors.Is(err, model.ErrEarlyNotConfirmed) {
		t.Fatalf("unconfirmed early: err = %v", err)
	}
	if s.Next("Bob") != ActionClockIn {
		t.Fatal("declined early clock-in must not create a record")
	}

	rec, err := s.ClockIn("Bob", at, true)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Early == nil || *rec.Early != (duration.HM{Hour: 0, Minute: 20}) || rec.Late != nil {
		t.Fatalf("early/late = %v/%v, want early 0h20m", rec.Early, rec.Late)
	}
	rec, _, err = s.ClockOut("Bob", s.Resolve(tod(17, 0)))
	if err != nil {
		t.Fatal(err)
	}
	if *rec.Worked != (duration.HM{Hour: 8, Minute: 20}) {
		t.Fatalf("Worked = %v, want 8h20m", *rec.Worked)
	}
}

func TestInvalidClockOut_NoMutation(t *testing.T) {
	s, _ := newTestSession(t, day)
	if _, err := s.ClockIn("Alice", s.Resolve(tod(10, 0)), false); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Set().Lookup("Alice")
	snapshot := *before

	_, _, err := s.ClockOut("Alice", s.Resolve(tod(9, 30)))
	if !errors.Is(err, model.ErrInvalidClockOut) {
		t.Fatalf("err = %v, want ErrInvalidClockOut", err)
	}
	after, st := s.Set().Lookup("Alice")
	if st != model.StateOpen || !reflect.DeepEqual(*after, snapshot) {
		t.Fatal("rejected clock-out changed the record")
	}
}

func TestClockOutBeforeDayStartRejected(t *testing.T) {
	s, _ := newTestSession(t, day)
	if _, err := s.ClockIn("Eve", s.Resolve(tod(7, 0)), true); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.ClockOut("Eve", s.Resolve(tod(8, 0))); !errors.Is(err, model.ErrInvalidClockOut) {
		t.Fatalf("err = %v, want ErrInvalidClockOut", err)
	}
}

func TestThirdEntry_AlreadyLeft(t *testing.T) {
	s, _ := newTestSession(t, day)
	s.ClockIn("Alice", s.Resolve(tod(9, 0)), false)
	s.ClockOut("Alice", s.Resolve(tod(17, 0)))
	closed, _ := s.Set().Lookup("Alice")
	snapshot := *closed

	if a := s.Next("Alice"); a != ActionAlreadyLeft {
		t.Fatalf("Next = %s, want already_left", a)
	}
	_, action, err := s.ClockOut("Alice", s.Resolve(tod(18, 0)))
	if err != nil || action != ActionAlreadyLeft {
		t.Fatalf("third entry: action=%s err=%v", action, err)
	}
	if _, err := s.ClockIn("Alice", s.Resolve(tod(18, 0)), true); !errors.Is(err, model.ErrAlreadyOpen) {
		t.Fatalf("re-clock-in: err = %v", err)
	}
	after, _ := s.Set().Lookup("Alice")
	if !reflect.DeepEqual(*after, snapshot) {
		t.Fatal("closed record changed")
	}
}

func TestClockOutUnknown(t *testing.T) {
	s, _ := newTestSession(t, day)
	if _, _, err := s.ClockOut("Nobody", s.Resolve(tod(12, 0))); !errors.Is(err, model.ErrUnknownPerson) {
		t.Fatalf("err = %v, want ErrUnknownPerson", err)
	}
}

func TestPreviewDoesNotMutate(t *testing.T) {
	s, _ := newTestSession(t, day)
	if _, err := s.PreviewClockIn("Alice", s.Resolve(tod(9, 5))); err != nil {
		t.Fatal(err)
	}
	if len(s.Set().Persons) != 0 {
		t.Fatal("PreviewClockIn stored a record")
	}
	s.ClockIn("Alice", s.Resolve(tod(9, 5)), false)
	if _, err := s.PreviewClockOut("Alice", s.Resolve(tod(17, 0))); err != nil {
		t.Fatal(err)
	}
	if _, st := s.Set().Lookup("Alice"); st != model.StateOpen {
		t.Fatal("PreviewClockOut closed the stored record")
	}
}

func TestConservation(t *testing.T) {
	s, c := newTestSession(t, day.Add(8*time.Hour+47*time.Minute))
	s.ClockIn("Alice", s.Resolve(nil), true)
	in := c.Now()
	out := c.Advance(7*time.Hour + 58*time.Minute)
	rec, _, err := s.ClockOut("Alice", s.Resolve(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := rec.Worked.Minutes(), int(out.Sub(in)/time.Minute); got != want {
		t.Fatalf("worked minutes = %d, want %d", got, want)
	}
}

func TestPresent(t *testing.T) {
	s, _ := newTestSession(t, day)
	s.ClockIn("Carol", s.Resolve(tod(9, 0)), false)
	s.ClockIn("Alice", s.Resolve(tod(9, 0)), false)
	s.ClockIn("Bob", s.Resolve(tod(9, 0)), false)
	s.ClockOut("Bob", s.Resolve(tod(12, 0)))
	if got := s.Present(); !reflect.DeepEqual(got, []string{"Alice", "Carol"}) {
		t.Fatalf("Present = %v", got)
	}
}

func TestFlushOnce(t *testing.T) {
	s, _ := newTestSession(t, day)
	sv := &memSaver{}
	if err := s.Flush(sv); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(sv); err != nil {
		t.Fatal(err)
	}
	if sv.calls != 1 {
		t.Fatalf("Put called %d times, want 1", sv.calls)
	}
	if sv.saved != s.Set() {
		t.Fatal("Flush saved a different set")
	}
}

func TestFlushRetriesAfterFailure(t *testing.T) {
	s, _ := newTestSession(t, day)
	sv := &memSaver{err: errors.New("disk full")}
	if err := s.Flush(sv); err == nil {
		t.Fatal("expected error")
	}
	sv.err = nil
	if err := s.Flush(sv); err != nil {
		t.Fatal(err)
	}
	if sv.calls != 2 {
		t.Fatalf("Put called %d times, want 2", sv.calls)
	}
}

func TestResolve_NowLandsOnSessionDay(t *testing.T) {
	// Tracking yesterday's sheet at 10:20:45 today.
	s, _ := newTestSession(t, day.AddDate(0, 0, 1).Add(10*time.Hour+20*time.Minute+45*time.Second))
	got := s.Resolve(nil)
	want := day.Add(10*time.Hour + 20*time.Minute)
	if !got.Equal(want) {
		t.Fatalf("Resolve(nil) = %v, want %v", got, want)
	}
}
