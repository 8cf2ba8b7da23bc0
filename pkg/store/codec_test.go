package store

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/workattend/wa/pkg/model"
)

func TestEncodeDecode(t *testing.T) {
	want := sampleDay(t)
	var buf bytes.Buffer
	if err := Encode(&buf, want); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	text := buf.String()
	for _, s := range []string{"version: 1", "date: \"2024-03-04\"", "time: \"09:00\"", "clock_in_text: \"09:15\"", "clock_out_text: \"17:30\""} {
		if !strings.Contains(text, s) {
			t.Errorf("encoded document missing %q:\n%s", s, text)
		}
	}
	got, err := Decode(buf.Bytes(), "test", time.UTC)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assertSameSet(t, got, want)
}

func TestEncodeDecode_ZeroDurations(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleDay(t)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(buf.Bytes(), "test", time.UTC)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, buf.String())
	}
	carol, st := got.Lookup("Carol")
	if st != model.StateClosed || carol.Late == nil || !carol.Late.IsZero() || carol.Worked == nil || !carol.Worked.IsZero() {
		t.Errorf("Carol = %+v (%s), want closed with 0h0m late and worked", carol, st)
	}
	dan, st := got.Lookup("Dan")
	if st != model.StateOpen || dan.Late == nil || !dan.Late.IsZero() || dan.Early != nil {
		t.Errorf("Dan = %+v (%s), want open with 0h0m late", dan, st)
	}
}

const validDoc = `version: 1
date: "2024-03-04"
day_start: {time: "09:00", hour: 9, minute: 0}
persons:
  Alice:
    clock_in_early: false
    clock_in_text: "09:15"
    late: {hour: 0, minute: 15}
    clock_out_text: "17:30"
    worked: {hour: 8, minute: 15}
`

func TestDecode_Valid(t *testing.T) {
	set, err := Decode([]byte(validDoc), "test", time.UTC)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r, state := set.Lookup("Alice")
	if state != model.StateClosed {
		t.Fatalf("state = %s, want closed", state)
	}
	if r.Worked.Hour != 8 || r.Worked.Minute != 15 {
		t.Errorf("worked = %v, want 8h15m", r.Worked)
	}
	if set.DayStart.Text() != "09:00" {
		t.Errorf("day start = %s", set.DayStart.Text())
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want error
	}{
		{"unknown version", "version: 1", "version: 2", model.ErrMalformedRecord},
		{"missing version", "version: 1\n", "", model.ErrMalformedRecord},
		{"bad date", `date: "2024-03-04"`, `date: "04/03/2024"`, model.ErrMalformedRecord},
		{"missing day start", "day_start: {time: \"09:00\", hour: 9, minute: 0}\n", "", model.ErrMissingDayStart},
		{"empty day start", `{time: "09:00", hour: 9, minute: 0}`, "{}", model.ErrMalformedRecord},
		{"day start without hour", `{time: "09:00", hour: 9, minute: 0}`, `{time: "09:00", minute: 0}`, model.ErrMalformedRecord},
		{"day start time disagrees", `time: "09:00"`, `time: "10:00"`, model.ErrMalformedRecord},
		{"day start out of range", "hour: 9, minute: 0}", "hour: 9, minute: 60}", model.ErrMalformedRecord},
		{"negative minute", "late: {hour: 0, minute: 15}", "late: {hour: 0, minute: -15}", model.ErrMalformedRecord},
		{"unnormalized worked", "worked: {hour: 8, minute: 15}", "worked: {hour: 7, minute: 75}", model.ErrMalformedRecord},
		{"late and early", "late: {hour: 0, minute: 15}", "late: {hour: 0, minute: 15}\n    early: {hour: 0, minute: 1}", model.ErrMalformedRecord},
		{"neither late nor early", "    late: {hour: 0, minute: 15}\n", "", model.ErrMalformedRecord},
		{"early flag disagrees", "clock_in_early: false", "clock_in_early: true", model.ErrMalformedRecord},
		{"worked without clock-out", "    clock_out_text: \"17:30\"\n", "", model.ErrMalformedRecord},
		{"open without clock-in time", "    worked: {hour: 8, minute: 15}\n", "", model.ErrMalformedRecord},
		{"unknown field", "    clock_in_early: false\n", "    clock_in_early: false\n    mood: happy\n", model.ErrMalformedRecord},
		{"not yaml", validDoc, "{{{", model.ErrMalformedRecord},
		{"empty", validDoc, "", model.ErrMalformedRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(validDoc, tt.from, tt.to, 1)
			if doc == validDoc {
				t.Fatalf("replacement %q did not apply", tt.from)
			}
			_, err := Decode([]byte(doc), "test.yaml", time.UTC)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecode_ErrorNamesSource(t *testing.T) {
	doc := strings.Replace(validDoc, "version: 1", "version: 7", 1)
	_, err := Decode([]byte(doc), "/data/2024/3 - March/4.yaml", time.UTC)
	var me *model.MalformedRecordError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want *MalformedRecordError", err)
	}
	if me.Source != "/data/2024/3 - March/4.yaml" || me.Field != "version" {
		t.Errorf("got source %q field %q", me.Source, me.Field)
	}
}
