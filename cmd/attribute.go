package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/subcommands"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/renderer"
)

type attributeCmd struct {
	portfolio string
	benchmark string
	monthly   bool
	format    format
}

func (*attributeCmd) Name() string     { return "attribute" }
func (*attributeCmd) Synopsis() string { return "attribute the portfolio performance against a benchmark" }
func (*attributeCmd) Usage() string {
	return `attr attribute -p <portfolio.json> -b <benchmark.json> [-monthly] [-format md|csv|jsonl]

  Decomposes the difference of return between the portfolio and the
  benchmark into selection, allocation and interaction effects per group.
  The benchmark is valued over the portfolio range.

  With -monthly, also attributes every calendar month, and links the monthly
  returns over the whole range. See 'attr topic effects' and 'attr topic linking'.

  The csv format writes the attribution rows, jsonl writes the full report.
`
}

func (c *attributeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio definition file")
	f.StringVar(&c.benchmark, "b", "", "Benchmark definition file")
	f.BoolVar(&c.monthly, "monthly", false, "Add the month by month attribution")
	formatFlag(f, &c.format)
}

// analyze reads both definitions and runs the analysis.
func analyze(ctx context.Context, a *app, portfolio, benchmark string, monthly bool) (*attribution.Report, error) {
	port, err := readPortfolio(portfolio)
	if err != nil {
		return nil, err
	}
	bench, err := readPortfolio(benchmark)
	if err != nil {
		return nil, err
	}
	return attribution.Analyze(ctx, port, bench, a.src, attribution.Options{Monthly: monthly})
}

func (c *attributeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) subcommands.ExitStatus {
		report, err := analyze(ctx, a, c.portfolio, c.benchmark, c.monthly)
		if err != nil {
			return fail("attributing", err)
		}
		switch c.format {
		case formatJSONL:
			err = json.NewEncoder(os.Stdout).Encode(report)
		default:
			err = emit(os.Stdout, c.format, report.Attribution.Rows, func() string { return renderer.ReportMarkdown(report) })
		}
		if err != nil {
			return fail("writing attribution", err)
		}
		return subcommands.ExitSuccess
	})
}
