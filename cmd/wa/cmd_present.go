package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/workattend/wa/pkg/model"
)

func (a *app) cmdPresent(args []string) int {
	flags := flag.NewFlagSet("present", flag.ContinueOnError)
	date := flags.String("date", "", "day to inspect (default today)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	day, err := a.resolveDate(*date)
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: present: %v\n", err)
		return 1
	}
	var names []string
	set, err := a.store.Get(day)
	switch {
	case err == nil:
		names = set.PresentNames()
	case errors.Is(err, model.ErrNotFound):
		// Nobody has clocked in yet.
	default:
		fmt.Fprintf(a.errOut, "wa: present: %v\n", err)
		return 1
	}

	if *jsonOut {
		if names == nil {
			names = []string{}
		}
		printJSON(a.out, map[string]interface{}{
			"date":    day.Format(model.DateLayout),
			"present": names,
		})
		return 0
	}
	a.printPresent(names)
	return 0
}
