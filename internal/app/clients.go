package app

import (
	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/slack"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/zendesk"
)

// Clients holds all external integration clients
type Clients struct {
	Zendesk       *zendesk.Client
	ZendeskHealth *zendesk.HealthChecker
	Slack         *slack.WebhookClient
}

func (app *Application) initializeClients() error {
	cfg := app.config
	logger := &slogAdapter{logger: app.logger}

	opts := []zendesk.Option{
		zendesk.WithTimeout(cfg.Zendesk.Timeout),
		zendesk.WithBaseURL(cfg.Zendesk.BaseURL),
	}
	if cfg.Zendesk.Breaker.Enabled() {
		opts = append(opts, zendesk.WithCircuitBreaker(
			zendesk.NewCircuitBreaker(cfg.Zendesk.Breaker.MaxFailures, cfg.Zendesk.Breaker.Cooldown),
		))
	}

	zd, err := zendesk.NewClient(cfg.Zendesk.Domain, cfg.Zendesk.Email, cfg.Zendesk.APIToken, opts...)
	if err != nil {
		return err
	}

	app.clients = &Clients{
		Zendesk:       zd,
		ZendeskHealth: zendesk.NewHealthChecker(zd, cfg.Zendesk.HealthCacheTTL),
		Slack: slack.NewWebhookClient(
			cfg.Slack.WebhookURL,
			logger,
			slack.WithTimeout(cfg.Slack.Timeout),
			slack.WithStrictStatus(cfg.Slack.StrictStatus),
		),
	}

	app.logger.Info("Zendesk integration enabled",
		"domain", cfg.Zendesk.Domain,
		"timeout", cfg.Zendesk.Timeout,
		"breaker_max_failures", cfg.Zendesk.Breaker.MaxFailures,
	)
	app.logger.Info("Slack webhook dispatcher enabled",
		"strict_status", cfg.Slack.StrictStatus,
		"timeout", cfg.Slack.Timeout,
	)

	return nil
}
