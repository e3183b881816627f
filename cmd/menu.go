package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/breakfast/internal/formatter"
	"github.com/desertthunder/breakfast/internal/models"
	"github.com/desertthunder/breakfast/internal/shared"
	"github.com/urfave/cli/v3"
)

// MenuShow lists the current menu.
func (r *Runner) MenuShow(ctx context.Context, cmd *cli.Command) error {
	combos := r.menu.CurrentMenu()

	r.writePlainHeader(r.menu.Name())
	r.writePlain("Combos: %d\n\n", len(combos))
	for i, combo := range combos {
		name, price, ok := models.SplitCombo(combo)
		if ok {
			r.writePlain("%3d. %s (%s)\n", i+1, name, price)
		} else {
			r.writePlain("%3d. %s\n", i+1, name)
		}
	}
	return nil
}

// MenuImport replaces the menu from a file and reshuffles, since the old sequence no longer matches.
func (r *Runner) MenuImport(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("path"))
	if path == "" {
		return fmt.Errorf("%w: menu file path", shared.ErrMissingArgument)
	}

	if err := r.menu.ImportFile(ctx, path); err != nil {
		return err
	}
	r.session.Reshuffle(ctx)

	return r.writePlain("✓ Imported %d combos as %q and reshuffled\n", len(r.menu.CurrentMenu()), r.menu.Name())
}

// MenuExport writes the menu to stdout or a file.
func (r *Runner) MenuExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if out := cmd.String("output"); out != "" {
		path, err := formatter.WriteExport(r.menu.List(), format, out)
		if err != nil {
			return err
		}
		r.logger.Info("menu exported", "path", path, "format", format)
		return r.writePlain("✓ Exported %d combos to %s\n", len(r.menu.CurrentMenu()), path)
	}

	data, err := r.menu.Export(format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// MenuReset restores the built-in menu and reshuffles.
func (r *Runner) MenuReset(ctx context.Context, cmd *cli.Command) error {
	r.menu.ResetToDefault(ctx)
	r.session.Reshuffle(ctx)
	return r.writePlain("✓ Menu reset to %q (%d combos) and reshuffled\n", r.menu.Name(), len(r.menu.CurrentMenu()))
}
