package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/renderer"
)

type returnsCmd struct {
	portfolio string
	by        string
	monthly   bool
	format    format
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "return of each group over the range" }
func (*returnsCmd) Usage() string {
	return `attr returns -p <portfolio.json> [-by group|instrument] [-monthly] [-format md|csv|jsonl]

  Reports the return of each group (or instrument) between the first and the
  last trading day of the range, with its weight on the last day.
  With -monthly, reports one return per group and calendar month instead.
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio definition file")
	f.StringVar(&c.by, "by", "group", "Aggregation level: group or instrument")
	f.BoolVar(&c.monthly, "monthly", false, "Report month by month returns")
	formatFlag(f, &c.format)
}

func (c *returnsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	port, err := readPortfolio(c.portfolio)
	if err != nil {
		return fail("reading portfolio", err)
	}
	return withApp(ctx, func(ctx context.Context, a *app) subcommands.ExitStatus {
		alloc, err := allocate(ctx, port, a.src, c.by)
		if err != nil {
			return fail("computing allocation", err)
		}
		extract := attribution.Extract
		if c.monthly {
			extract = attribution.ExtractMonthly
		}
		rows, err := extract(alloc)
		if err != nil {
			return fail("computing returns", err)
		}
		md := func() string { return renderer.ReturnsMarkdown("Returns of "+port.Name, rows) }
		if err := emit(os.Stdout, c.format, rows, md); err != nil {
			return fail("writing returns", err)
		}
		return subcommands.ExitSuccess
	})
}
