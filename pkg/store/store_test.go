package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/workattend/wa/pkg/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath, time.UTC)
	if err != nil {
		t.Fatalf("NewSQLite(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	want := sampleDay(t)
	if err := s.Put(monday, want); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := NewSQLite(dbPath, time.UTC)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(monday)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	assertSameSet(t, got, want)
}

func TestSQLite_EmptyDay(t *testing.T) {
	s := newTestSQLite(t)
	set := model.NewDailyRecordSet(monday, 8, 30)
	if err := s.Put(monday, set); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(monday)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Persons) != 0 {
		t.Errorf("got %d persons, want 0", len(got.Persons))
	}
	if got.DayStart.Text() != "08:30" {
		t.Errorf("day start = %s, want 08:30", got.DayStart.Text())
	}
}

func TestSQLite_DamagedRowsAreMalformed(t *testing.T) {
	tests := []struct {
		name   string
		damage string
	}{
		{"both late and early", `UPDATE records SET early_hour = 0, early_minute = 5 WHERE name = 'Alice'`},
		{"neither late nor early", `UPDATE records SET late_hour = NULL, late_minute = NULL WHERE name = 'Alice'`},
		{"minute out of range", `UPDATE records SET worked_minute = 75 WHERE name = 'Alice'`},
		{"negative duration", `UPDATE records SET late_minute = -1 WHERE name = 'Alice'`},
		{"worked without clock-out", `UPDATE records SET clock_out_text = NULL WHERE name = 'Alice'`},
		{"open without clock-in time", `UPDATE records SET clock_in_at = NULL WHERE name = 'Bob'`},
		{"bad timestamp", `UPDATE records SET clock_in_at = 'yesterday' WHERE name = 'Bob'`},
		{"unknown version", `UPDATE days SET version = 99`},
		{"bad day start", `UPDATE days SET day_start = '25:99'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSQLite(t)
			if err := s.Put(monday, sampleDay(t)); err != nil {
				t.Fatal(err)
			}
			if _, err := s.db.Exec(tt.damage); err != nil {
				t.Fatalf("damage: %v", err)
			}
			_, err := s.Get(monday)
			if !errors.Is(err, model.ErrMalformedRecord) {
				t.Fatalf("err = %v, want ErrMalformedRecord", err)
			}
		})
	}
}

func TestSQLite_BlankDayStart(t *testing.T) {
	s := newTestSQLite(t)
	if err := s.Put(monday, sampleDay(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(`UPDATE days SET day_start = ''`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(monday); !errors.Is(err, model.ErrMissingDayStart) {
		t.Fatalf("err = %v, want ErrMissingDayStart", err)
	}
}

func TestSQLite_ConcurrentReaders(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	writer, err := NewSQLite(dbPath, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	defer writer.Close()
	reader, err := NewSQLite(dbPath, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	done := make(chan error, 1)
	go func() {
		for i := 0; i < 20; i++ {
			if err := writer.Put(monday.AddDate(0, 0, i), model.NewDailyRecordSet(monday.AddDate(0, 0, i), 9, 0)); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	for i := 0; i < 20; i++ {
		if _, err := reader.Get(monday.AddDate(0, 0, i)); err != nil && !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("reader Get: %v", err)
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("writer: %v", err)
	}
}
