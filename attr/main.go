// Command attr runs Brinson performance attribution of a portfolio against a
// benchmark.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/sonwamoh/perfomance-attribution/cmd"
)

func main() {
	completion().Complete("attr")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
// Install it with COMP_INSTALL=1 attr.
func completion() *complete.Command {
	definitions := predict.Files("*.json")
	formats := predict.Set{"md", "csv", "jsonl"}
	levels := predict.Set{"group", "instrument"}

	analysis := func(extra map[string]complete.Predictor) *complete.Command {
		flags := map[string]complete.Predictor{"p": definitions, "format": formats}
		for k, v := range extra {
			flags[k] = v
		}
		return &complete.Command{Flags: flags}
	}

	return &complete.Command{
		Sub: map[string]*complete.Command{
			"build":        analysis(nil),
			"allocation":   analysis(map[string]complete.Predictor{"by": levels}),
			"returns":      analysis(map[string]complete.Predictor{"by": levels, "monthly": predict.Nothing}),
			"contribution": analysis(map[string]complete.Predictor{"by": levels}),
			"attribute":    analysis(map[string]complete.Predictor{"b": definitions, "monthly": predict.Nothing}),
			"link":         analysis(map[string]complete.Predictor{"b": definitions}),
			"explain":      {Flags: map[string]complete.Predictor{"p": definitions, "b": definitions, "monthly": predict.Nothing}},
			"fetch":        {Flags: map[string]complete.Predictor{"o": predict.Files("*.csv"), "all": predict.Nothing}},
			"serve":        {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"topic":        {Args: predict.Set{"effects", "linking", "portfolio", "prices"}},
		},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"prices": predict.Files("*.csv"),
			"v":      predict.Nothing,
		},
	}
}
