package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/sonwamoh/perfomance-attribution/renderer"
)

type buildCmd struct {
	portfolio string
	format    format
}

func (*buildCmd) Name() string     { return "build" }
func (*buildCmd) Synopsis() string { return "value a portfolio day by day" }
func (*buildCmd) Usage() string {
	return `attr build -p <portfolio.json> [-format md|csv|jsonl]

  Buys the portfolio holdings on the first trading day of its range, and
  values every position on every trading day until the end of the range.
  See 'attr topic portfolio' for the definition format.
`
}

func (c *buildCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio definition file")
	formatFlag(f, &c.format)
}

func (c *buildCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	port, err := readPortfolio(c.portfolio)
	if err != nil {
		return fail("reading portfolio", err)
	}
	return withApp(ctx, func(ctx context.Context, a *app) subcommands.ExitStatus {
		rows, err := port.Valuation(ctx, a.src)
		if err != nil {
			return fail("building portfolio", err)
		}
		if err := emit(os.Stdout, c.format, rows, func() string { return renderer.ValuationMarkdown(rows, port.Currency) }); err != nil {
			return fail("writing valuation", err)
		}
		return subcommands.ExitSuccess
	})
}
