// Command wa records when people clock in and out of a workplace and builds
// weekly and monthly attendance reports from those records.
package main

import (
	"fmt"
	"os"

	"github.com/workattend/wa/pkg/config"
	"github.com/workattend/wa/pkg/logger"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Println("wa", version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("%v", err)
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	a, err := newApp(cfg)
	if err != nil {
		fatal("%v", err)
	}

	code := 0
	switch os.Args[1] {
	case "track", "t":
		code = a.cmdTrack(os.Args[2:])
	case "report", "r":
		code = a.cmdReport(os.Args[2:])
	case "present":
		code = a.cmdPresent(os.Args[2:])
	case "show":
		code = a.cmdShow(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "wa: unknown command %q\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Run 'wa --help' for usage.")
		code = 1
	}
	a.Close()
	os.Exit(code)
}

func printUsage() {
	fmt.Print(`wa — manual time-and-attendance tracker

Usage:
  wa <command> [flags]

Commands:
  track [--start HH:MM] [--date D] [--yes]
                            Record clock-ins and clock-outs for a day
  report --period week|month [--kind simple|complex] [--date D]
         [--format xlsx|csv|text] [--out DIR] [--workdays N] [--json]
                            Build a week or month report
  present [--date D] [--json]
                            List people clocked in and not yet out
  show [--date D] [--json]  Print a stored day

Aliases:
  t = track, r = report

Dates are DD/MM/YYYY or YYYY-MM-DD and default to today.

Environment (also read from .env):
  WA_STORE              file or sqlite (default: file)
  WA_DATA_DIR           day files directory (default: Work Attendance Files)
  WA_DB                 SQLite database path (default: wa.db)
  WA_REPORTS_DIR        report output directory (default: Reports)
  WA_DAY_START          default day start (default: 09:00)
  WA_WORKDAYS_PER_WEEK  divisor for per-week averages (default: 5)
  WA_CONFIRM_SAVE       ask before recording each entry (default: true)
  WA_LOG_LEVEL          trace..error (default: info)
  WA_LOG_FORMAT         console or json (default: console on a terminal)

Exit codes:
  0  success
  1  error
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "wa: "+format+"\n", args...)
	os.Exit(1)
}
