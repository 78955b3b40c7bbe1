package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"claim-fraud-alerts/internal/httpapi"
)

// Serve exposes the scan boundary over HTTP until interrupted.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	engine, closer, err := a.newEngine(ctx)
	if err != nil {
		return err
	}
	defer closer()

	server := httpapi.NewServer(a.Config.Server, engine, a.Logger)
	err = server.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
