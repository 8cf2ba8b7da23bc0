package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/workattend/wa/pkg/duration"
	"github.com/workattend/wa/pkg/model"
)

// FormatVersion is the current on-disk layout of a day document.
const FormatVersion = 1

var validate = validator.New()

// document is the persisted form of a model.DailyRecordSet.
type document struct {
	Version  int                   `yaml:"version"`
	Date     string                `yaml:"date"`
	DayStart *dayStartDoc          `yaml:"day_start"`
	Persons  map[string]*recordDoc `yaml:"persons"`
}

type dayStartDoc struct {
	Time   string `yaml:"time" validate:"required"`
	Hour   int    `yaml:"hour" validate:"min=0,max=23"`
	Minute int    `yaml:"minute" validate:"min=0,max=59"`
}

// recordDoc keeps nil durations as null. A zero lateness or a zero-length
// shift is a value and must still be written.
type recordDoc struct {
	ClockInEarly bool         `yaml:"clock_in_early"`
	ClockInText  string       `yaml:"clock_in_text"`
	ClockInAt    *time.Time   `yaml:"clock_in_at,omitempty"`
	Late         *duration.HM `yaml:"late"`
	Early        *duration.HM `yaml:"early"`
	ClockOutText string       `yaml:"clock_out_text,omitempty"`
	ClockOutAt   *time.Time   `yaml:"clock_out_at,omitempty"`
	Worked       *duration.HM `yaml:"worked"`
}

// Encode writes set as a versioned YAML document.
func Encode(w io.Writer, set *model.DailyRecordSet) error {
	doc := document{
		Version: FormatVersion,
		Date:    set.Date.Format(model.DateLayout),
		Persons: make(map[string]*recordDoc, len(set.Persons)),
	}
	if !set.DayStart.IsZero() {
		doc.DayStart = &dayStartDoc{
			Time:   set.DayStart.Text(),
			Hour:   set.DayStart.Hour(),
			Minute: set.DayStart.Minute(),
		}
	}
	for name, r := range set.Persons {
		doc.Persons[name] = &recordDoc{
			ClockInEarly: r.ClockInEarly,
			ClockInText:  r.ClockInText,
			ClockInAt:    r.ClockInAt,
			Late:         r.Late,
			Early:        r.Early,
			ClockOutText: r.ClockOutText,
			ClockOutAt:   r.ClockOutAt,
			Worked:       r.Worked,
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// Decode reads a day document. source names the input in errors. Dates are
// placed in loc.
func Decode(data []byte, source string, loc *time.Location) (*model.DailyRecordSet, error) {
	malformed := func(field, format string, args ...any) error {
		return &model.MalformedRecordError{Source: source, Field: field, Reason: fmt.Sprintf(format, args...)}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, malformed("", "empty document")
		}
		return nil, malformed("", "%v", err)
	}
	if doc.Version != FormatVersion {
		return nil, malformed("version", "unsupported version %d", doc.Version)
	}
	date, err := time.ParseInLocation(model.DateLayout, doc.Date, loc)
	if err != nil {
		return nil, malformed("date", "%v", err)
	}
	if doc.DayStart == nil {
		return nil, fmt.Errorf("%s: %w", source, model.ErrMissingDayStart)
	}
	if err := validate.Struct(doc.DayStart); err != nil {
		return nil, malformed("day_start", "%v", err)
	}
	if want := fmt.Sprintf("%02d:%02d", doc.DayStart.Hour, doc.DayStart.Minute); doc.DayStart.Time != want {
		return nil, malformed("day_start", "time %q does not match %s", doc.DayStart.Time, want)
	}

	set := model.NewDailyRecordSet(date, doc.DayStart.Hour, doc.DayStart.Minute)
	for name, rd := range doc.Persons {
		if rd == nil {
			return nil, malformed(name, "empty record")
		}
		rec := &model.DailyAttendanceRecord{
			Name:         name,
			ClockInEarly: rd.ClockInEarly,
			ClockInText:  rd.ClockInText,
			ClockInAt:    rd.ClockInAt,
			Late:         rd.Late,
			Early:        rd.Early,
			ClockOutText: rd.ClockOutText,
			ClockOutAt:   rd.ClockOutAt,
			Worked:       rd.Worked,
		}
		if err := checkRecord(source, rec); err != nil {
			return nil, err
		}
		set.Persons[name] = rec
	}
	return set, nil
}

// checkRecord enforces the record invariants on data read back from any
// backend.
func checkRecord(source string, r *model.DailyAttendanceRecord) error {
	malformed := func(field, reason string) error {
		return &model.MalformedRecordError{Source: source, Field: r.Name + "." + field, Reason: reason}
	}
	if r.Name == "" {
		return &model.MalformedRecordError{Source: source, Field: "name", Reason: "empty name"}
	}
	if (r.Late == nil) == (r.Early == nil) {
		return malformed("late/early", "exactly one of late and early must be set")
	}
	if r.ClockInEarly != (r.Early != nil) {
		return malformed("clock_in_early", "flag disagrees with early/late")
	}
	for field, v := range map[string]*duration.HM{"late": r.Late, "early": r.Early, "worked": r.Worked} {
		if v != nil && !v.Normalized() {
			return malformed(field, fmt.Sprintf("not a normalized duration: %d:%d", v.Hour, v.Minute))
		}
	}
	if r.Worked == nil {
		if r.ClockInAt == nil {
			return malformed("clock_in_at", "open record without clock-in time")
		}
		if r.ClockOutText != "" {
			return malformed("worked", "clock-out without worked time")
		}
	} else if r.ClockOutText == "" {
		return malformed("clock_out_text", "worked time without clock-out")
	}
	return nil
}
