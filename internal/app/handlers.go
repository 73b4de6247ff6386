package app

import (
	"github.com/qj0r9j0vc2/ticket-bridge/internal/adapter/handler"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/server"
)

func (app *Application) initializeHandlers() error {
	logger := &slogAdapter{logger: app.logger}

	// Create readiness handler with dependency checkers
	readyHandler := handler.NewReadyHandler()
	readyHandler.AddChecker(app.clients.Zendesk.Name(), app.clients.ZendeskHealth)

	app.handlers = &server.Handlers{
		ZendeskWebhook: handler.NewZendeskWebhookHandler(app.useCases.RelayTicket, logger),
		Health:         handler.NewHealthHandler(Version),
		Ready:          readyHandler,
		Metrics:        handler.NewMetricsHandler(app.telemetry.Handler()),
	}

	return nil
}

func (app *Application) setupServer() error {
	router := server.NewRouter(app.handlers, app.logger, &server.RouterConfig{
		RequestTimeout: app.config.Server.RequestTimeout,
		Metrics:        app.telemetry.Metrics,
	})

	app.router = router
	app.server = server.New(app.config.Server, router, app.logger)
	return nil
}
