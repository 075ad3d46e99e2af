package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/renderer"
)

type allocationCmd struct {
	portfolio string
	by        string
	format    format
}

func (*allocationCmd) Name() string     { return "allocation" }
func (*allocationCmd) Synopsis() string { return "value and weight of each group day by day" }
func (*allocationCmd) Usage() string {
	return `attr allocation -p <portfolio.json> [-by group|instrument] [-format md|csv|jsonl]

  Aggregates the portfolio valuation by group, or by instrument, and reports
  the share of the total value each of them holds on every trading day.
`
}

func (c *allocationCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio definition file")
	f.StringVar(&c.by, "by", "group", "Aggregation level: group or instrument")
	formatFlag(f, &c.format)
}

// allocate values port and aggregates it at level by.
func allocate(ctx context.Context, port attribution.Portfolio, src attribution.PriceSource, by string) ([]attribution.GroupAllocationRow, error) {
	switch by {
	case "group":
		return port.GroupAllocation(ctx, src)
	case "instrument":
		rows, err := port.Valuation(ctx, src)
		if err != nil {
			return nil, err
		}
		return attribution.InstrumentAllocation(rows)
	default:
		return nil, fmt.Errorf("unknown aggregation level %q, want group or instrument", by)
	}
}

func (c *allocationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	port, err := readPortfolio(c.portfolio)
	if err != nil {
		return fail("reading portfolio", err)
	}
	return withApp(ctx, func(ctx context.Context, a *app) subcommands.ExitStatus {
		rows, err := allocate(ctx, port, a.src, c.by)
		if err != nil {
			return fail("computing allocation", err)
		}
		if err := emit(os.Stdout, c.format, rows, func() string { return renderer.AllocationMarkdown(rows, port.Currency) }); err != nil {
			return fail("writing allocation", err)
		}
		return subcommands.ExitSuccess
	})
}
