package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/workattend/wa/pkg/entry"
	"github.com/workattend/wa/pkg/model"
	"github.com/workattend/wa/pkg/session"
	"github.com/workattend/wa/pkg/store"
)

var menuStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1).
	MarginLeft(2)

var menuLines = []string{
	"• Enter a person's name the first time a day to record when they clocked in.",
	"  (e.g. Name [Full Name] [HH:MM])",
	"• Enter the name again to record when they clocked out.",
	"• Type ALL to list everyone present at the workplace.",
	"• Type MENU to show this menu.",
	"• Press Ctrl-C or Ctrl-D to save the day and exit.",
}

func (a *app) cmdTrack(args []string) (code int) {
	flags := flag.NewFlagSet("track", flag.ContinueOnError)
	start := flags.String("start", "", "day start HH:MM for a new day (skips the prompt)")
	date := flags.String("date", "", "day to track (default today)")
	yes := flags.Bool("yes", false, "record entries without asking to proceed")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	day, err := a.resolveDate(*date)
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: track: %v\n", err)
		return 1
	}

	sig := a.interrupts
	if sig == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(ch)
		sig = ch
	}
	p := newPrompter(a.in, a.out, sig)
	defer p.Close()

	sess, err := a.openDay(p, day, *start)
	if errors.Is(err, io.EOF) || errors.Is(err, errInterrupted) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: track: %v\n", err)
		return 1
	}
	a.printMenu()

	// The day is saved on every way out of the loop, panics included.
	defer func() {
		if err := sess.Flush(a.store); err != nil {
			fmt.Fprintf(a.errOut, "wa: track: %v\n", err)
			code = 1
			return
		}
		a.printSaved(day)
	}()

	confirm := a.cfg.ConfirmSave && !*yes
	loopErr := a.trackLoop(p, sess, confirm)
	if loopErr != nil && !errors.Is(loopErr, io.EOF) && !errors.Is(loopErr, errInterrupted) {
		fmt.Fprintf(a.errOut, "wa: track: %v\n", loopErr)
		return 1
	}
	return 0
}

// openDay loads day from the store or starts it, asking for the day start
// unless startFlag supplies one.
func (a *app) openDay(p *prompter, day time.Time, startFlag string) (*session.Session, error) {
	set, err := a.store.Get(day)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "Loading data for %s ...\n", day.Format("02 Jan 2006"))
	case errors.Is(err, model.ErrNotFound):
		tod := a.cfg.DayStart
		if startFlag != "" {
			if tod, err = entry.ParseTimeOfDay(startFlag); err != nil {
				return nil, err
			}
		} else if tod, err = a.askDayStart(p, day, tod); err != nil {
			return nil, err
		}
		set = model.NewDailyRecordSet(day, tod.Hour, tod.Minute)
	default:
		return nil, err
	}

	sess, err := session.New(set, a.clock, session.WithLogger(a.log.With().Str("component", "session").Logger()))
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "\nDAY'S START: === %s === %s ===\n", day.Format("02 Jan 2006"), set.DayStart.Text())
	return sess, nil
}

func (a *app) askDayStart(p *prompter, day time.Time, def model.TimeOfDay) (model.TimeOfDay, error) {
	fmt.Fprintf(a.out, "DATE: %s.\nDEFAULT START TIME: %s.\n", day.Format("02 Jan 2006"), def)
	choice, err := p.choose("Type 'OK' to continue with default start time or 'SET' to set new start time: ", "OK", "SET")
	if err != nil || choice == "OK" {
		return def, err
	}
	for {
		h, err := p.ask("Enter new start hour (0..23): ")
		if err != nil {
			return def, err
		}
		m, err := p.ask("Enter new start minute (0..59): ")
		if err != nil {
			return def, err
		}
		tod, err := entry.ParseTimeOfDay(strings.TrimSpace(h) + ":" + strings.TrimSpace(m))
		if err == nil {
			return tod, nil
		}
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}

// trackLoop reads entries until input ends or a signal arrives.
func (a *app) trackLoop(p *prompter, sess *session.Session, confirm bool) error {
	for {
		line, err := p.ask("\nEnter name and time: ")
		if err != nil {
			return err
		}
		e, err := entry.Parse(line)
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			continue
		}
		switch e.Kind {
		case entry.KindListPresent:
			a.printPresent(sess.Present())
		case entry.KindMenu:
			a.printMenu()
		default:
			if err := a.handlePerson(p, sess, e, confirm); err != nil {
				return err
			}
		}
	}
}

// handlePerson clocks e.Name in or out. Only prompt failures are returned;
// rejected entries are reported to the operator and leave the day as it was.
func (a *app) handlePerson(p *prompter, sess *session.Session, e entry.Entry, confirm bool) error {
	t := sess.Resolve(e.At)
	switch sess.Next(e.Name) {
	case session.ActionClockIn:
		rec, err := sess.PreviewClockIn(e.Name, t)
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			return nil
		}
		if rec.ClockInEarly {
			ok, err := p.confirm(fmt.Sprintf("Are you sure %q clocked in before day's start time and was not late?", e.Name))
			if err != nil || !ok {
				return err
			}
		}
		fmt.Fprintln(a.out, clockInMessage(rec))
		if ok, err := a.proceed(p, confirm); err != nil || !ok {
			return err
		}
		if _, err := sess.ClockIn(e.Name, t, rec.ClockInEarly); err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}

	case session.ActionClockOut:
		rec, err := sess.PreviewClockOut(e.Name, t)
		if errors.Is(err, model.ErrInvalidClockOut) {
			fmt.Fprintf(a.out, "%q could not clock out at that time.\n", e.Name)
			return nil
		}
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			return nil
		}
		fmt.Fprintf(a.out, "%q clocked out at %s and worked for %s.\n", e.Name, rec.ClockOutText, rec.Worked.Describe())
		if ok, err := a.proceed(p, confirm); err != nil || !ok {
			return err
		}
		if _, _, err := sess.ClockOut(e.Name, t); err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}

	case session.ActionAlreadyLeft:
		fmt.Fprintf(a.out, "%s has already left workplace.\n", e.Name)
	}
	return nil
}

func (a *app) proceed(p *prompter, confirm bool) (bool, error) {
	if !confirm {
		return true, nil
	}
	return p.confirm("Do you want to proceed?")
}

func clockInMessage(rec *model.DailyAttendanceRecord) string {
	if rec.Early != nil {
		return fmt.Sprintf("%q clocked in at %s and was %s early.", rec.Name, rec.ClockInText, rec.Early.Describe())
	}
	return fmt.Sprintf("%q clocked in at %s and was late for %s.", rec.Name, rec.ClockInText, rec.Late.Describe())
}

func (a *app) printPresent(names []string) {
	fmt.Fprintln(a.out, "\nNOW ON WORKPLACE:")
	if len(names) == 0 {
		fmt.Fprintln(a.out, "\tNOBODY")
		return
	}
	for _, n := range names {
		fmt.Fprintln(a.out, "\t"+n)
	}
}

func (a *app) printMenu() {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, menuStyle.Render(strings.Join(menuLines, "\n")))
}

func (a *app) printSaved(day time.Time) {
	if fs, ok := a.store.(*store.FileStore); ok {
		fmt.Fprintf(a.out, "\nSaved to %q.\n", fs.Path(day))
		return
	}
	fmt.Fprintf(a.out, "\nSaved %s.\n", day.Format(model.DateLayout))
}
