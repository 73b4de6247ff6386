package app

import (
	"io"
	"log/slog"
	"os"
)

func (app *Application) setupLogger() error {
	app.logger = newLogger(os.Stdout, app.config.Logging.Level, app.config.Logging.Format)
	slog.SetDefault(app.logger)

	app.logger.Info("configuration loaded",
		"server_port", app.config.Server.Port,
		"zendesk_domain", app.config.Zendesk.Domain,
		"zendesk_base_url", app.config.Zendesk.BaseURL,
		"display_timezone", app.config.Display.Timezone,
		"slack_strict_status", app.config.Slack.StrictStatus,
		"request_timeout", app.config.Server.RequestTimeout,
	)
	return nil
}

// newLogger creates and configures the logger.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// slogAdapter adapts slog.Logger to the ticket.Logger and slack.Logger interfaces.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Debug(msg string, keysAndValues ...any) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a *slogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Info(msg, keysAndValues...)
}

func (a *slogAdapter) Warn(msg string, keysAndValues ...any) {
	a.logger.Warn(msg, keysAndValues...)
}

func (a *slogAdapter) Error(msg string, keysAndValues ...any) {
	a.logger.Error(msg, keysAndValues...)
}
