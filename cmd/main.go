package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/breakfast/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})
	app := newApp(runner)

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

// newApp builds the root command with the global flags shared by every subcommand.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "breakfast",
		Usage:   "Walk through a shuffled breakfast menu without repeats",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "session",
				Usage:   "Session ID for the session-scoped store (defaults to one per shell)",
				Sources: cli.EnvVars("BREAKFAST_SESSION"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Configure,
		Commands: r.register(),
	}
}
