package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/renderer"
)

type contributionCmd struct {
	portfolio string
	by        string
	format    format
}

func (*contributionCmd) Name() string     { return "contribution" }
func (*contributionCmd) Synopsis() string { return "contribution of each group to the portfolio return" }
func (*contributionCmd) Usage() string {
	return `attr contribution -p <portfolio.json> [-by group|instrument] [-format md|csv|jsonl]

  Reports the weight times the return of each group (or instrument). The
  contributions sum to the portfolio return.
`
}

func (c *contributionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio definition file")
	f.StringVar(&c.by, "by", "group", "Aggregation level: group or instrument")
	formatFlag(f, &c.format)
}

func (c *contributionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	port, err := readPortfolio(c.portfolio)
	if err != nil {
		return fail("reading portfolio", err)
	}
	return withApp(ctx, func(ctx context.Context, a *app) subcommands.ExitStatus {
		alloc, err := allocate(ctx, port, a.src, c.by)
		if err != nil {
			return fail("computing allocation", err)
		}
		returns, err := attribution.Extract(alloc)
		if err != nil {
			return fail("computing returns", err)
		}
		rows := attribution.Contribution(returns)
		if err := emit(os.Stdout, c.format, rows, func() string { return renderer.ContributionMarkdown(rows) }); err != nil {
			return fail("writing contribution", err)
		}
		return subcommands.ExitSuccess
	})
}
