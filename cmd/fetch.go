package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	attribution "github.com/sonwamoh/perfomance-attribution"
)

type fetchCmd struct {
	output string
	all    bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch daily prices from the configured provider" }
func (*fetchCmd) Usage() string {
	return `attr fetch [-o <prices.csv>] [-all] <symbol...>

  Fetches the full daily price history of each symbol (e.g. MARUTI.BSE) from
  the configured provider (Alpha Vantage or EODHD), and saves it in the price
  store. With -all, refreshes every symbol already in the store.

  With -o, also writes the fetched prices as CSV, readable with -prices.
  The provider is chosen by the provider setting. Its API key is read from the
  configuration (e.g. alphavantage.api_key, or the ATTR_ALPHAVANTAGE_API_KEY
  environment variable).
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Also write the prices to this CSV file")
	f.BoolVar(&c.all, "all", false, "Refresh every symbol in the store")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if *pricesFile != "" {
		fmt.Fprintln(os.Stderr, "-prices cannot be used with fetch")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) subcommands.ExitStatus {
		symbols := f.Args()
		if c.all {
			stored, err := a.store.Instruments(ctx)
			if err != nil {
				return fail("listing stored symbols", err)
			}
			symbols = append(symbols, stored...)
		}
		if len(symbols) == 0 {
			fmt.Fprintln(os.Stderr, "at least one symbol is required")
			return subcommands.ExitUsageError
		}

		var fetched []attribution.PricePoint
		var errs []error
		for _, s := range symbols {
			if err := a.cache.Refresh(ctx, s); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", s, err))
				continue
			}
			points, err := a.store.Prices(ctx, s)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", s, err))
				continue
			}
			a.logger.Info("fetched", zap.String("symbol", s), zap.Int("points", len(points)))
			fetched = append(fetched, points...)
		}

		if c.output != "" {
			if err := writePrices(c.output, fetched); err != nil {
				return fail("writing prices", err)
			}
		}
		if err := errors.Join(errs...); err != nil {
			return fail("fetching", err)
		}
		return subcommands.ExitSuccess
	})
}

func writePrices(file string, points []attribution.PricePoint) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := attribution.EncodeCSV(f, points); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
