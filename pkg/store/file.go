package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/workattend/wa/pkg/model"
)

// FileStore keeps one YAML document per day under
// <root>/<year>/<month number - month name>/<day>.yaml.
type FileStore struct {
	root string
	loc  *time.Location
	log  zerolog.Logger

	mu       sync.Mutex
	reported map[string]bool
}

// NewFile returns a store rooted at dir. The directory is created on the
// first Put.
func NewFile(dir string, loc *time.Location, log zerolog.Logger) *FileStore {
	if loc == nil {
		loc = time.Local
	}
	return &FileStore{root: dir, loc: loc, log: log, reported: make(map[string]bool)}
}

// Path returns the file that holds date.
func (s *FileStore) Path(date time.Time) string {
	return filepath.Join(s.monthDir(date), fmt.Sprintf("%d.yaml", date.Day()))
}

func (s *FileStore) yearDir(date time.Time) string {
	return filepath.Join(s.root, fmt.Sprintf("%d", date.Year()))
}

func (s *FileStore) monthDir(date time.Time) string {
	return filepath.Join(s.yearDir(date), fmt.Sprintf("%d - %s", int(date.Month()), date.Month()))
}

// Get loads the day saved for date.
func (s *FileStore) Get(date time.Time) (*model.DailyRecordSet, error) {
	path := s.Path(date)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.reportMissingDir(date)
		return nil, fmt.Errorf("%s: %w", date.Format(model.DateLayout), model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	set, err := Decode(data, path, s.loc)
	if err != nil {
		return nil, err
	}
	if !sameDay(set.Date, date) {
		return nil, &model.MalformedRecordError{
			Source: path,
			Field:  "date",
			Reason: fmt.Sprintf("file holds %s", set.Date.Format(model.DateLayout)),
		}
	}
	return set, nil
}

// reportMissingDir logs a missing year or month directory once per store.
func (s *FileStore) reportMissingDir(date time.Time) {
	for _, dir := range []string{s.yearDir(date), s.monthDir(date)} {
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		s.mu.Lock()
		seen := s.reported[dir]
		s.reported[dir] = true
		s.mu.Unlock()
		if !seen {
			s.log.Warn().Str("dir", dir).Msg("no attendance directory")
		}
		return
	}
}

// Put writes set for date, replacing any earlier save. The file is written
// to a temporary name and renamed into place.
func (s *FileStore) Put(date time.Time, set *model.DailyRecordSet) error {
	if set == nil {
		return fmt.Errorf("put %s: nil record set", date.Format(model.DateLayout))
	}
	if set.DayStart.IsZero() {
		return fmt.Errorf("put %s: %w", date.Format(model.DateLayout), model.ErrMissingDayStart)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, set); err != nil {
		return fmt.Errorf("encode %s: %w", date.Format(model.DateLayout), err)
	}
	path := s.Path(date)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".day-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	s.log.Debug().Str("path", path).Int("persons", len(set.Persons)).Msg("day saved")
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
