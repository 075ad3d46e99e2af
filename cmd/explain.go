package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/sonwamoh/perfomance-attribution/agent"
)

type explainCmd struct {
	portfolio string
	benchmark string
	monthly   bool
}

func (*explainCmd) Name() string     { return "explain" }
func (*explainCmd) Synopsis() string { return "chat with an AI analyst about an attribution" }
func (*explainCmd) Usage() string {
	return `attr explain -p <portfolio.json> -b <benchmark.json> [-monthly] [question...]

  Runs the attribution, then starts an interactive session with an AI analyst
  who has read the report. Requires a Gemini API key (GEMINI_API_KEY).
`
}

func (c *explainCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio definition file")
	f.StringVar(&c.benchmark, "b", "", "Benchmark definition file")
	f.BoolVar(&c.monthly, "monthly", false, "Include the month by month attribution")
}

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) subcommands.ExitStatus {
		report, err := analyze(ctx, a, c.portfolio, c.benchmark, c.monthly)
		if err != nil {
			return fail("attributing", err)
		}

		client, err := genai.NewClient(ctx, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
			return subcommands.ExitFailure
		}

		model := a.cfg.Agent.Model
		analyst := agent.NewAttributionAnalyst(model, report)
		market := agent.NewMarketAnalyst(model)
		analyst.Logger, market.Logger = a.logger, a.logger
		chat := agent.New(os.Stdout, os.Stdin, model, agent.Headline(report), analyst, market)
		chat.Logger, chat.Facilitator.Logger = a.logger, a.logger
		chat.Print = printMarkdown

		if err := chat.Run(ctx, client, strings.Join(f.Args(), " ")); err != nil {
			fmt.Fprintln(os.Stderr, "Agent failed:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}
