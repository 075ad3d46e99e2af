// Package cmd implements the attr CLI: performance attribution of a
// portfolio against a benchmark.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/alphavantage"
	"github.com/sonwamoh/perfomance-attribution/config"
	"github.com/sonwamoh/perfomance-attribution/eodhd"
	"github.com/sonwamoh/perfomance-attribution/logger"
	"github.com/sonwamoh/perfomance-attribution/metrics"
	"github.com/sonwamoh/perfomance-attribution/pricecache"
	"github.com/sonwamoh/perfomance-attribution/pricedb"
)

// Commands lists the subcommands, with their group.
var Commands = []struct {
	Command subcommands.Command
	Group   string
}{
	{&buildCmd{}, "analysis"},
	{&allocationCmd{}, "analysis"},
	{&returnsCmd{}, "analysis"},
	{&contributionCmd{}, "analysis"},
	{&attributeCmd{}, "analysis"},
	{&linkCmd{}, "analysis"},
	{&explainCmd{}, "analysis"},
	{&fetchCmd{}, "prices"},
	{&serveCmd{}, "service"},
	{&topicCmd{}, "help"},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd.Command, cmd.Group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "attr.yaml", "Path to the configuration file (YAML). Missing is fine.")
	pricesFile = flag.String("prices", "", "Read prices from this CSV file instead of the configured provider")
	verbose    = flag.Bool("v", false, "Log debug messages")
)

// app holds what a command needs to run.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	src    attribution.PriceSource
	// set when prices come from the provider.
	store *pricedb.Store
	cache *pricecache.Source
}

// newApp loads the configuration and opens the price source.
// m may be nil.
func newApp(m *metrics.Metrics) (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	l, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("cannot create logger: %w", err)
	}
	a := &app{cfg: cfg, logger: l}

	if *pricesFile != "" {
		f, err := os.Open(*pricesFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if a.src, err = attribution.DecodePricesCSV(f); err != nil {
			return nil, fmt.Errorf("cannot read %q: %w", *pricesFile, err)
		}
		return a, nil
	}

	if a.store, err = pricedb.Open(cfg.Store.Path); err != nil {
		return nil, err
	}
	if a.cache, err = pricecache.New(cfg.Cache, remote(cfg, l), a.store, m, l); err != nil {
		a.store.Close()
		return nil, err
	}
	a.src = a.cache
	return a, nil
}

// remote returns the configured price provider.
func remote(cfg config.Config, l *zap.Logger) attribution.PriceSource {
	if cfg.Provider == "eodhd" {
		return eodhd.New(cfg.EODHD, l)
	}
	return alphavantage.New(cfg.AlphaVantage, l)
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	a.logger.Sync()
}

// readPortfolio decodes the portfolio definition in file.
func readPortfolio(file string) (attribution.Portfolio, error) {
	if file == "" {
		return attribution.Portfolio{}, errors.New("missing portfolio file")
	}
	f, err := os.Open(file)
	if err != nil {
		return attribution.Portfolio{}, err
	}
	defer f.Close()
	return attribution.DecodePortfolio(f)
}

// printMarkdown renders md to the terminal.
func printMarkdown(md string) { writeMarkdown(os.Stdout, md) }

// writeMarkdown renders md to w, or writes it raw when it cannot.
func writeMarkdown(w io.Writer, md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprint(w, md)
}

// format is the output format of analysis commands.
type format string

const (
	formatMarkdown format = "md"
	formatCSV      format = "csv"
	formatJSONL    format = "jsonl"
)

func (f *format) String() string { return string(*f) }
func (f *format) Set(s string) error {
	switch format(s) {
	case formatMarkdown, formatCSV, formatJSONL:
		*f = format(s)
		return nil
	}
	return fmt.Errorf("unknown format %q, want md, csv or jsonl", s)
}

func formatFlag(f *flag.FlagSet, v *format) {
	*v = formatMarkdown
	f.Var(v, "format", "Output format: md, csv or jsonl")
}

// emit writes rows to w in format, md renders them as markdown.
func emit[R attribution.Record](w io.Writer, fm format, rows []R, md func() string) error {
	switch fm {
	case formatCSV:
		return attribution.EncodeCSV(w, rows)
	case formatJSONL:
		return attribution.EncodeJSONL(w, rows)
	default:
		writeMarkdown(w, md())
		return nil
	}
}

// fail reports err and returns the exit status matching it.
func fail(what string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	var weight *attribution.InvalidWeightError
	if errors.As(err, &weight) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// withApp runs fn with an app, and closes it afterwards.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) subcommands.ExitStatus) subcommands.ExitStatus {
	a, err := newApp(nil)
	if err != nil {
		return fail("initializing", err)
	}
	defer a.Close()
	return fn(ctx, a)
}
