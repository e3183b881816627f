package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/breakfast/internal/server"
	"github.com/desertthunder/breakfast/internal/shared"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

// Serve exposes the session over HTTP until interrupted. The final save happens after the
// server stops accepting requests.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.sessionID == "" {
		r.sessionID = shared.GenerateID()
	}

	if err := r.open(ctx); err != nil {
		return err
	}
	defer r.close(ctx)

	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.Logging(r.logger))
	router.Handler(server.NewAPI(r.session, r.menu, r.logger))

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Addr()
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("listening", "addr", addr, "session", r.sessionID)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	r.writePlain("Serving on http://%s (share link: http://%s/share)\n", addr, addr)

	select {
	case err, ok := <-serverErrors:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		r.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}
	return nil
}
