package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/renderer"
)

type linkCmd struct {
	portfolio string
	benchmark string
	format    format
}

func (*linkCmd) Name() string     { return "link" }
func (*linkCmd) Synopsis() string { return "link monthly returns over the whole range" }
func (*linkCmd) Usage() string {
	return `attr link -p <portfolio.json> -b <benchmark.json> [-format md|csv|jsonl]

  Computes monthly group returns on both sides, compounds them over the range
  and attributes the linked returns. See 'attr topic linking'.
`
}

func (c *linkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio definition file")
	f.StringVar(&c.benchmark, "b", "", "Benchmark definition file")
	formatFlag(f, &c.format)
}

// monthly returns the monthly group returns of p, split by month.
func monthly(ctx context.Context, p attribution.Portfolio, src attribution.PriceSource) ([][]attribution.GroupReturnRow, error) {
	alloc, err := p.GroupAllocation(ctx, src)
	if err != nil {
		return nil, err
	}
	rows, err := attribution.ExtractMonthly(alloc)
	if err != nil {
		return nil, err
	}
	return attribution.SplitByDate(rows), nil
}

func (c *linkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	port, err := readPortfolio(c.portfolio)
	if err != nil {
		return fail("reading portfolio", err)
	}
	bench, err := readPortfolio(c.benchmark)
	if err != nil {
		return fail("reading benchmark", err)
	}
	bench.Range = port.Range

	return withApp(ctx, func(ctx context.Context, a *app) subcommands.ExitStatus {
		pm, err := monthly(ctx, port, a.src)
		if err != nil {
			return fail("computing portfolio returns", err)
		}
		bm, err := monthly(ctx, bench, a.src)
		if err != nil {
			return fail("computing benchmark returns", err)
		}
		res, err := attribution.AttributeLinked(pm, bm)
		if err != nil {
			return fail("linking", err)
		}

		md := func() string {
			var b strings.Builder
			pl, _ := attribution.Link(pm...)
			bl, _ := attribution.Link(bm...)
			fmt.Fprintf(&b, "# Linked returns over %d months\n\n", len(pm))
			fmt.Fprint(&b, renderer.ReturnsMarkdown(port.Name, pl), "\n")
			fmt.Fprint(&b, renderer.ReturnsMarkdown(bench.Name, bl), "\n")
			fmt.Fprint(&b, renderer.AttributionMarkdown("Linked Attribution", res))
			return b.String()
		}
		if err := emit(os.Stdout, c.format, res.Rows, md); err != nil {
			return fail("writing attribution", err)
		}
		return subcommands.ExitSuccess
	})
}
