// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strings"

	"github.com/desertthunder/breakfast/internal/formatter"
	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file and data directory, and migrate the structured store",
		Action: r.Setup,
	}
}

func nextCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "next",
		Aliases: []string{"n"},
		Usage:   "Advance to the next combo",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.withSession(r.Next),
	}
}

func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "show",
		Aliases: []string{"status"},
		Usage:   "Show the current combo and progress",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "history",
				Usage: "List viewed combos, newest first",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.withSession(r.Show),
	}
}

func resetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "reset",
		Usage:  "Start the same shuffled sequence over",
		Action: r.withSession(r.Reset),
	}
}

func reshuffleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "reshuffle",
		Aliases: []string{"shuffle"},
		Usage:   "Shuffle the menu again and start over",
		Action:  r.withSession(r.Reshuffle),
	}
}

func linkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "link",
		Usage: "Print the share link that carries the current progress",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the link in the default browser",
			},
		},
		Action: r.withSession(r.Link),
	}
}

func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "Resume the progress carried by a share link or token",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Action: r.Open,
	}
}

func clearCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "clear",
		Usage:  "Erase saved progress and menu from every store and the share link",
		Action: r.withSession(r.Clear),
	}
}

func menuCommand(r *Runner) *cli.Command {
	formats := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		formats[i] = string(f)
	}

	return &cli.Command{
		Name:  "menu",
		Usage: "Manage the menu the combos are shuffled from",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "List the current menu",
				Action: r.withSession(r.MenuShow),
			},
			{
				Name:  "import",
				Usage: "Replace the menu from a .json, .yaml/.yml or plain text file, then reshuffle",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.withSession(r.MenuImport),
			},
			{
				Name:  "export",
				Usage: "Export the current menu",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   fmt.Sprintf("Output format (%s)", strings.Join(formats, ", ")),
						Value:   string(formatter.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when empty)",
					},
				},
				Action: r.withSession(r.MenuExport),
			},
			{
				Name:   "reset",
				Usage:  "Restore the built-in menu, then reshuffle",
				Action: r.withSession(r.MenuReset),
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Launch interactive terminal UI",
		Action:  r.TUI,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the session over a local HTTP JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to server.host:server.port from config)",
			},
		},
		Action: r.Serve,
	}
}
