package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/workattend/wa/pkg/aggregate"
	"github.com/workattend/wa/pkg/derive"
	"github.com/workattend/wa/pkg/model"
	"github.com/workattend/wa/pkg/period"
	"github.com/workattend/wa/pkg/render"
)

func (a *app) cmdReport(args []string) int {
	flags := flag.NewFlagSet("report", flag.ContinueOnError)
	periodFlag := flags.String("period", "week", "week or month")
	kindFlag := flags.String("kind", "simple", "simple (totals) or complex (totals and averages)")
	date := flags.String("date", "", "any day inside the period (default today)")
	format := flags.String("format", "xlsx", "xlsx, csv or text")
	outDir := flags.String("out", "", "reports directory (default WA_REPORTS_DIR)")
	workdays := flags.Int("workdays", 0, "workdays per week for per-week averages (default WA_WORKDAYS_PER_WEEK)")
	jsonOut := flags.Bool("json", false, "print the computed report as JSON instead of rendering it")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	p, err := model.ParsePeriod(*periodFlag)
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: report: %v\n", err)
		return 1
	}
	kind, err := model.ParseReportKind(*kindFlag)
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: report: %v\n", err)
		return 1
	}
	day, err := a.resolveDate(*date)
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: report: %v\n", err)
		return 1
	}
	if *workdays == 0 {
		*workdays = a.cfg.WorkdaysPerWeek
	}
	if *outDir == "" {
		*outDir = a.cfg.ReportsDir
	}

	rng := period.For(p, day)
	acc, err := aggregate.New(a.store, a.log.With().Str("component", "aggregate").Logger()).Run(rng)
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: report: %v\n", err)
		return 1
	}
	if acc.DaysCounted == 0 {
		fmt.Fprintf(a.out, "\nNO FILES FOUND.\nCANNOT CREATE A %s REPORT.\n", strings.ToUpper(p.Title()))
		return 1
	}
	rep, err := derive.Derive(acc, derive.Options{Period: p, Kind: kind, Range: rng, WorkdaysPerWeek: *workdays})
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: report %s: %v\n", rng, err)
		return 1
	}

	if *jsonOut {
		printJSON(a.out, rep)
		return 0
	}

	sink, err := render.ForFormat(*format,
		render.WithLogger(a.log.With().Str("component", "render").Logger()),
		render.WithOutput(a.out))
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: report: %v\n", err)
		return 1
	}
	artifact, err := sink.Render(rep, render.Meta{Dir: *outDir, Generated: a.clock.Now()})
	if err != nil {
		fmt.Fprintf(a.errOut, "wa: report: %v\n", err)
		return 1
	}
	if len(acc.Missing) > 0 {
		fmt.Fprintf(a.errOut, "%d of %d day(s) had no records.\n", len(acc.Missing), rng.Len())
	}
	if _, ok := sink.(*render.Text); !ok {
		fmt.Fprintf(a.out, "Saved as %s to %s.\n", filepath.Base(artifact), filepath.Dir(artifact))
	}
	return 0
}
