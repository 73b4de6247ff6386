package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/observability"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/server"
)

// Version is set at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

// Application holds all application dependencies and lifecycle
type Application struct {
	config    *config.Config
	logger    *slog.Logger
	telemetry *observability.Telemetry

	// Infrastructure clients
	clients *Clients

	// Use cases
	useCases *UseCases

	// HTTP layer
	handlers *server.Handlers
	router   http.Handler
	server   *server.Server
}

// New creates a new Application instance
func New(configPath string) (*Application, error) {
	app := &Application{}

	if err := app.bootstrap(configPath); err != nil {
		return nil, err
	}

	return app, nil
}

// Start runs the application until context is cancelled
func (app *Application) Start(ctx context.Context) error {
	app.logger.Info("starting ticket-bridge",
		"port", app.config.Server.Port,
		"version", Version,
	)

	return app.server.Run(ctx)
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Shutdown releases resources held by the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down ticket-bridge")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if app.telemetry != nil {
		if err := app.telemetry.Shutdown(ctx); err != nil {
			app.logger.Error("failed to shutdown telemetry", "error", err)
			return err
		}
	}

	app.logger.Info("ticket-bridge stopped")
	return nil
}
