// Package store persists daily attendance record sets.
//
// Two backends implement RecordStore: FileStore keeps one YAML document per
// day in a year/month directory tree, SQLiteStore keeps days and records in a
// WAL-mode SQLite database. Both validate what they read back and report
// damage as model.ErrMalformedRecord rather than guessing.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/workattend/wa/pkg/duration"
	"github.com/workattend/wa/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps record sets in SQLite.
type SQLiteStore struct {
	db  *sql.DB
	loc *time.Location
}

// NewSQLite opens (or creates) the database at path and migrates the schema.
// Dates read back are placed in loc.
func NewSQLite(path string, loc *time.Location) (*SQLiteStore, error) {
	if loc == nil {
		loc = time.Local
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &SQLiteStore{db: db, loc: loc}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func retryOnContention(fn func() error) error {
	return retryOp(defaultRetryConfig, fn)
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS days (
		date       TEXT PRIMARY KEY,
		version    INTEGER NOT NULL,
		day_start  TEXT NOT NULL,
		saved_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS records (
		date           TEXT NOT NULL REFERENCES days(date) ON DELETE CASCADE,
		name           TEXT NOT NULL,
		clock_in_early INTEGER NOT NULL,
		clock_in_text  TEXT NOT NULL,
		clock_in_at    TEXT,
		late_hour      INTEGER,
		late_minute    INTEGER,
		early_hour     INTEGER,
		early_minute   INTEGER,
		clock_out_text TEXT,
		clock_out_at   TEXT,
		worked_hour    INTEGER,
		worked_minute  INTEGER,
		PRIMARY KEY (date, name)
	);
	`
	return retryOnContention(func() error {
		_, err := s.db.Exec(schema)
		return err
	})
}

// Put replaces everything stored for date with set.
func (s *SQLiteStore) Put(date time.Time, set *model.DailyRecordSet) error {
	if set == nil {
		return fmt.Errorf("put %s: nil record set", date.Format(model.DateLayout))
	}
	if set.DayStart.IsZero() {
		return fmt.Errorf("put %s: %w", date.Format(model.DateLayout), model.ErrMissingDayStart)
	}
	key := date.Format(model.DateLayout)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return retryOnContention(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM records WHERE date = ?`, key); err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO days (date, version, day_start, saved_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(date) DO UPDATE SET version = excluded.version,
			   day_start = excluded.day_start, saved_at = excluded.saved_at`,
			key, FormatVersion, set.DayStart.Text(), now,
		)
		if err != nil {
			return err
		}
		for _, name := range set.Names() {
			r := set.Persons[name]
			lh, lm := hmArgs(r.Late)
			eh, em := hmArgs(r.Early)
			wh, wm := hmArgs(r.Worked)
			_, err := tx.Exec(
				`INSERT INTO records (date, name, clock_in_early, clock_in_text, clock_in_at,
				   late_hour, late_minute, early_hour, early_minute,
				   clock_out_text, clock_out_at, worked_hour, worked_minute)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				key, name, r.ClockInEarly, r.ClockInText, timeArg(r.ClockInAt),
				lh, lm, eh, em,
				nullString(r.ClockOutText), timeArg(r.ClockOutAt), wh, wm,
			)
			if err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// Get loads the set saved for date.
func (s *SQLiteStore) Get(date time.Time) (*model.DailyRecordSet, error) {
	key := date.Format(model.DateLayout)
	source := "sqlite:" + key

	var version int
	var start string
	err := s.db.QueryRow(`SELECT version, day_start FROM days WHERE date = ?`, key).Scan(&version, &start)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", key, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get day %s: %w", key, err)
	}
	if version != FormatVersion {
		return nil, &model.MalformedRecordError{Source: source, Field: "version", Reason: fmt.Sprintf("unsupported version %d", version)}
	}
	if start == "" {
		return nil, fmt.Errorf("%s: %w", source, model.ErrMissingDayStart)
	}
	st, err := time.Parse(model.TimeLayout, start)
	if err != nil {
		return nil, &model.MalformedRecordError{Source: source, Field: "day_start", Reason: err.Error()}
	}
	day, err := time.ParseInLocation(model.DateLayout, key, s.loc)
	if err != nil {
		return nil, err
	}
	set := model.NewDailyRecordSet(day, st.Hour(), st.Minute())

	rows, err := s.db.Query(
		`SELECT name, clock_in_early, clock_in_text, clock_in_at,
		   late_hour, late_minute, early_hour, early_minute,
		   clock_out_text, clock_out_at, worked_hour, worked_minute
		 FROM records WHERE date = ? ORDER BY name`, key,
	)
	if err != nil {
		return nil, fmt.Errorf("get records %s: %w", key, err)
	}
	defer rows.Close()
	for rows.Next() {
		r, err := scanRecord(rows, source)
		if err != nil {
			return nil, err
		}
		if err := checkRecord(source, r); err != nil {
			return nil, err
		}
		set.Persons[r.Name] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get records %s: %w", key, err)
	}
	return set, nil
}

func scanRecord(rows *sql.Rows, source string) (*model.DailyAttendanceRecord, error) {
	var (
		r                  model.DailyAttendanceRecord
		inAt, outText, out sql.NullString
		lh, lm, eh, em     sql.NullInt64
		wh, wm             sql.NullInt64
	)
	if err := rows.Scan(&r.Name, &r.ClockInEarly, &r.ClockInText, &inAt,
		&lh, &lm, &eh, &em, &outText, &out, &wh, &wm); err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}
	var err error
	if r.ClockInAt, err = parseTimeCol(inAt); err != nil {
		return nil, &model.MalformedRecordError{Source: source, Field: r.Name + ".clock_in_at", Reason: err.Error()}
	}
	if r.ClockOutAt, err = parseTimeCol(out); err != nil {
		return nil, &model.MalformedRecordError{Source: source, Field: r.Name + ".clock_out_at", Reason: err.Error()}
	}
	r.ClockOutText = outText.String
	r.Late = hmCol(lh, lm)
	r.Early = hmCol(eh, em)
	r.Worked = hmCol(wh, wm)
	return &r, nil
}

func hmArgs(d *duration.HM) (any, any) {
	if d == nil {
		return nil, nil
	}
	return d.Hour, d.Minute
}

func hmCol(h, m sql.NullInt64) *duration.HM {
	if !h.Valid || !m.Valid {
		return nil
	}
	return &duration.HM{Hour: int(h.Int64), Minute: int(m.Int64)}
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseTimeCol(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
