package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/workattend/wa/pkg/model"
)

func TestFileStore_Path(t *testing.T) {
	s := NewFile("/data", time.UTC, zerolog.Nop())
	got := s.Path(time.Date(2024, 11, 7, 0, 0, 0, 0, time.UTC))
	want := filepath.Join("/data", "2024", "11 - November", "7.yaml")
	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestFileStore_PutLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFile(dir, time.UTC, zerolog.Nop())
	if err := s.Put(monday, sampleDay(t)); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Dir(s.Path(monday)))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "4.yaml" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("month dir holds %v, want [4.yaml]", names)
	}
}

func TestFileStore_MisplacedFile(t *testing.T) {
	s := NewFile(t.TempDir(), time.UTC, zerolog.Nop())
	if err := s.Put(monday, sampleDay(t)); err != nil {
		t.Fatal(err)
	}
	tuesday := monday.AddDate(0, 0, 1)
	if err := os.Rename(s.Path(monday), s.Path(tuesday)); err != nil {
		t.Fatal(err)
	}
	_, err := s.Get(tuesday)
	if !errors.Is(err, model.ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord", err)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	s := NewFile(t.TempDir(), time.UTC, zerolog.Nop())
	path := s.Path(monday)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("Alice: [9, 15"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := s.Get(monday)
	var me *model.MalformedRecordError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want *MalformedRecordError", err)
	}
	if me.Source != path {
		t.Errorf("source = %q, want %q", me.Source, path)
	}
}

func TestFileStore_MissingDirLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	s := NewFile(t.TempDir(), time.UTC, zerolog.New(&buf))
	for i := 0; i < 5; i++ {
		if _, err := s.Get(monday.AddDate(0, 0, i)); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("Get: %v", err)
		}
	}
	if n := strings.Count(buf.String(), "no attendance directory"); n != 1 {
		t.Errorf("logged %d times, want 1:\n%s", n, buf.String())
	}
}
