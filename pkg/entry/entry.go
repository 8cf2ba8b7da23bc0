// Package entry parses the lines an operator types at the tracking prompt.
//
// A line is either a sentinel command (ALL, MENU) or a person's name,
// optionally followed by an explicit HH:MM. Names may contain several words;
// every word must consist of letters only.
package entry

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/workattend/wa/pkg/model"
)

// Kind classifies a parsed line.
type Kind int

const (
	KindPerson Kind = iota
	KindListPresent
	KindMenu
)

// Entry is one parsed prompt line.
type Entry struct {
	Kind Kind
	Name string
	// At is the explicit time, or nil for "now".
	At *model.TimeOfDay
}

var validate = validator.New()

type nameParts struct {
	Parts []string `validate:"required,min=1,dive,alphaunicode"`
}

// Parse validates one prompt line. Validation failures wrap
// model.ErrInvalidInput.
func Parse(line string) (Entry, error) {
	switch strings.ToUpper(strings.TrimSpace(line)) {
	case "ALL":
		return Entry{Kind: KindListPresent}, nil
	case "MENU":
		return Entry{Kind: KindMenu}, nil
	}

	args := strings.Fields(norm.NFC.String(line))
	if len(args) == 0 {
		return Entry{}, &model.InputError{Field: "name", Value: line, Err: errors.New("whitespace is not a name")}
	}

	e := Entry{Kind: KindPerson}
	nameArgs := args
	if len(args) > 1 {
		last := args[len(args)-1]
		if strings.Count(last, ":") == 1 {
			tod, err := ParseTimeOfDay(last)
			if err != nil {
				return Entry{}, err
			}
			e.At = &tod
			nameArgs = args[:len(args)-1]
		}
	}

	if err := validate.Struct(nameParts{Parts: nameArgs}); err != nil {
		return Entry{}, &model.InputError{Field: "name", Value: strings.Join(nameArgs, " "),
			Err: errors.New("name must contain only letters")}
	}
	e.Name = strings.Join(nameArgs, " ")
	return e, nil
}

// ParseTimeOfDay parses H:MM or HH:MM with hour 0..23 and minute 0..59.
func ParseTimeOfDay(s string) (model.TimeOfDay, error) {
	bad := func(reason string) error {
		return &model.InputError{Field: "time", Value: s, Err: errors.New(reason)}
	}
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return model.TimeOfDay{}, bad("expected HH:MM")
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return model.TimeOfDay{}, bad("hour is not a number")
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return model.TimeOfDay{}, bad("minute is not a number")
	}
	tod := model.TimeOfDay{Hour: h, Minute: m}
	if err := validate.Struct(tod); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Minute" {
			return model.TimeOfDay{}, bad("minute must be in 0..59")
		}
		return model.TimeOfDay{}, bad("hour must be in 0..23")
	}
	return tod, nil
}

// DateLayouts are the accepted report date formats, day-first first.
var DateLayouts = []string{"02/01/2006", "2/1/2006", model.DateLayout}

// ParseDate parses a report date in one of DateLayouts, in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &model.InputError{Field: "date", Value: s, Err: errors.New("expected dd/mm/yyyy or yyyy-mm-dd")}
}
