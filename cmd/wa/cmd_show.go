package main

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/workattend/wa/pkg/model"
)

func (a *app) cmdShow(args []string) int {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	date := flags.String("date", "", "day to print (default today)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	day, err := a.resolveDate(*date)
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: show: %v\n", err)
		return 1
	}
	set, err := a.store.Get(day)
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: show: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(a.out, set)
		return 0
	}

	fmt.Fprintf(a.out, "%s, day start %s\n", day.Format("Monday 02 Jan 2006"), set.DayStart.Text())
	if len(set.Persons) == 0 {
		fmt.Fprintln(a.out, "no records")
		return 0
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "In", "Late", "Early", "Out", "Worked")
	for _, name := range set.Names() {
		tbl.Row(dayRow(set.Persons[name])...)
	}
	fmt.Fprintln(a.out, tbl.Render())
	return 0
}

func dayRow(r *model.DailyAttendanceRecord) []string {
	row := []string{r.Name, r.ClockInText, "", "", "", ""}
	if r.Late != nil {
		row[2] = r.Late.String()
	}
	if r.Early != nil {
		row[3] = r.Early.String()
	}
	if r.State() == model.StateClosed {
		row[4] = r.ClockOutText
		row[5] = r.Worked.String()
	} else {
		row[4] = "present"
	}
	return row
}
