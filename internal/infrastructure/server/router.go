package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/adapter/handler/middleware"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/observability"
)

// Route paths.
const (
	PathZendeskWebhook      = "/zendesk-webhook"
	PathZendeskWebhookAlias = "/webhook/zendesk"
	PathHealth              = "/health"
	PathReady               = "/ready"
	PathMetrics             = "/metrics"
)

// Handlers holds all HTTP handlers.
type Handlers struct {
	ZendeskWebhook http.Handler
	Health         http.Handler
	Ready          http.Handler
	Metrics        http.Handler
}

// RouterConfig holds the optional parts of the middleware stack.
type RouterConfig struct {
	// RequestTimeout bounds webhook processing. Zero disables it.
	RequestTimeout time.Duration

	// Metrics enables HTTP request metrics when set.
	Metrics *observability.Metrics
}

// NewRouter creates the HTTP router with all handlers.
func NewRouter(handlers *Handlers, logger *slog.Logger, cfg *RouterConfig) http.Handler {
	if cfg == nil {
		cfg = &RouterConfig{}
	}
	mux := http.NewServeMux()

	// Health check endpoints
	if handlers.Health != nil {
		mux.Handle(PathHealth, handlers.Health)
		mux.Handle("/{$}", handlers.Health) // Root path returns health
	}
	if handlers.Ready != nil {
		mux.Handle(PathReady, handlers.Ready)
	}
	if handlers.Metrics != nil {
		mux.Handle(PathMetrics, handlers.Metrics)
	}

	// Webhook endpoints
	if handlers.ZendeskWebhook != nil {
		mux.Handle(PathZendeskWebhook, handlers.ZendeskWebhook)
		mux.Handle(PathZendeskWebhookAlias, handlers.ZendeskWebhook)
	}

	// Outermost first
	stack := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logging(logger),
	}
	if cfg.Metrics != nil {
		stack = append(stack, middleware.Observability(
			cfg.Metrics,
			cfg.Metrics.HTTPRequestsActive,
			PathZendeskWebhook, PathZendeskWebhookAlias, PathHealth, PathReady, PathMetrics, "/",
		))
	}
	stack = append(stack, middleware.Timeout(cfg.RequestTimeout, logger, PathHealth, PathReady, PathMetrics, "/"))

	return middleware.Chain(mux, stack...)
}
