package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/breakfast/internal/progress"
	"github.com/desertthunder/breakfast/internal/shared"
	"github.com/desertthunder/breakfast/internal/urlstate"
	"github.com/urfave/cli/v3"
)

// Next advances to the next combo and prints it.
func (r *Runner) Next(ctx context.Context, cmd *cli.Command) error {
	advanced := r.session.Advance(ctx)
	view := r.session.View()

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			progress.View
			Advanced bool `json:"advanced"`
		}{view, advanced}, false)
	}

	if !advanced {
		r.writePlain("All %d combos already viewed.\n", view.Total)
		return r.writePlain("Run 'breakfast reset' or 'breakfast reshuffle' to start over.\n")
	}
	return r.printView(view)
}

// Show prints the current combo, progress and optionally the viewing history.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	view := r.session.View()

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			progress.View
			Menu   string `json:"menu"`
			Origin string `json:"origin"`
		}{view, r.menu.Name(), string(r.session.Origin())}, cmd.Bool("pretty"))
	}

	if err := r.printView(view); err != nil {
		return err
	}

	if cmd.Bool("history") {
		r.writePlainln("History (%d):", len(view.History))
		if len(view.History) == 0 {
			return r.writePlain("  nothing viewed yet\n")
		}
		for i, combo := range view.History {
			r.writePlain("  %d. %s\n", len(view.History)-i, combo)
		}
	}
	return nil
}

// Reset rewinds the current sequence.
func (r *Runner) Reset(ctx context.Context, cmd *cli.Command) error {
	r.session.Reset(ctx)
	r.writePlain("✓ Progress reset\n")
	return r.printView(r.session.View())
}

// Reshuffle draws a new sequence from the menu.
func (r *Runner) Reshuffle(ctx context.Context, cmd *cli.Command) error {
	r.session.Reshuffle(ctx)
	r.writePlain("✓ Combos reshuffled (%d)\n", r.session.State().Total())
	return r.printView(r.session.View())
}

// Link prints the share link and optionally opens it.
func (r *Runner) Link(ctx context.Context, cmd *cli.Command) error {
	link := r.session.View().ShareURL
	if err := r.writePlain("%s\n", link); err != nil {
		return err
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(link); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}
	return nil
}

// Open adopts the progress carried by a share link. The argument may be a full link or a bare token.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	raw := strings.TrimSpace(cmd.StringArg("url"))
	if raw == "" {
		return fmt.Errorf("%w: share link or token", shared.ErrMissingArgument)
	}

	token, isLink := raw, false
	if u, err := url.Parse(raw); err == nil && (u.Scheme != "" || u.Fragment != "") {
		token, isLink = u.Fragment, u.Scheme != ""
	}

	state, err := urlstate.Decode(token)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	if err := r.open(ctx); err != nil {
		return err
	}
	defer r.close(ctx)

	if isLink {
		if err := r.link.Navigate(raw); err != nil {
			r.logger.Warn("failed to store opened link", "error", err)
		}
	}
	if !r.session.Adopt(ctx, state) {
		r.logger.Warn("shared link does not match the current menu", "total", state.Total(), "menu", len(r.menu.CurrentMenu()))
		r.writePlain("! Link was made for a different menu (%d combos, current menu has %d); combos reshuffled\n",
			state.Total(), len(r.menu.CurrentMenu()))
		return r.printView(r.session.View())
	}

	r.logger.Info("adopted shared progress", "index", state.CurrentIndex, "total", state.Total())
	r.writePlain("✓ Progress loaded from link\n")
	return r.printView(r.session.View())
}

// Clear erases every backend and the share link.
func (r *Runner) Clear(ctx context.Context, cmd *cli.Command) error {
	results := r.store.Clear(ctx)
	failed := 0
	for _, res := range results {
		if err := res.Wait(ctx); err != nil {
			r.logger.Warn("clear failed", "backend", res.Backend, "error", err)
			failed++
		}
	}
	if err := r.codec.Clear(); err != nil {
		r.logger.Warn("failed to clear share link", "error", err)
	}
	r.cleared = true

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d stores could not be cleared", shared.ErrStorageUnavailable, failed, len(results))
	}
	return r.writePlain("✓ Cleared saved progress from %d stores\n", len(results))
}

func (r *Runner) printView(view progress.View) error {
	if view.Completed {
		r.writePlain("%s\n", view.CurrentText)
		r.writePlain("%s\n", view.CurrentPrice)
	} else if view.CurrentPrice != "" {
		r.writePlain("%s  (%s)\n", view.CurrentText, view.CurrentPrice)
	} else {
		r.writePlain("%s\n", view.CurrentText)
	}
	return r.writePlain("Progress: %s (%d%%)\n", view.Progress, view.Percent)
}
