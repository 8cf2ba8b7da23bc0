package clock

import (
	"testing"
	"time"
)

func TestFixedNowDoesNotAdvance(t *testing.T) {
	start := time.Date(2026, 10, 15, 9, 15, 0, 0, time.UTC)
	c := NewFixed(start)
	for i := 0; i < 3; i++ {
		if got := c.Now(); !got.Equal(start) {
			t.Fatalf("Now #%d: got %v, want %v", i, got, start)
		}
	}
}

func TestFixedAdvance(t *testing.T) {
	c := NewFixed(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
	got := c.Advance(8*time.Hour + 30*time.Minute)
	want := time.Date(2026, 10, 15, 17, 30, 0, 0, time.UTC)
	if !got.Equal(want) || !c.Now().Equal(want) {
		t.Fatalf("Advance: got %v, want %v", got, want)
	}
}

func TestFixedSet(t *testing.T) {
	c := NewFixed(time.Time{})
	want := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c.Set(want)
	if !c.Now().Equal(want) {
		t.Fatalf("after Set: got %v, want %v", c.Now(), want)
	}
}

func TestSystemUsesLocation(t *testing.T) {
	loc := time.FixedZone("test", 3*3600)
	if got := (System{Loc: loc}).Now().Location(); got != loc {
		t.Fatalf("System.Now location = %v, want %v", got, loc)
	}
}

func TestToday(t *testing.T) {
	c := NewFixed(time.Date(2026, 10, 15, 23, 59, 59, 0, time.UTC))
	want := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	if got := Today(c); !got.Equal(want) {
		t.Fatalf("Today: got %v, want %v", got, want)
	}
}
