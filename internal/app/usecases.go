package app

import (
	"fmt"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/usecase/ticket"
)

// UseCases holds the application use cases.
type UseCases struct {
	RelayTicket *ticket.RelayTicketUseCase
}

func (app *Application) initializeUseCases() error {
	cfg := app.config

	loc, err := cfg.Display.Location()
	if err != nil {
		return fmt.Errorf("display timezone: %w", err)
	}

	opts := ticket.MessageOptions{
		ConversationHeader: cfg.Display.ConversationHeader,
		MarkAuthorRoles:    cfg.Display.MarkAuthorRoles,
	}
	if cfg.Display.LinkTicket {
		opts.TicketURL = app.clients.Zendesk.TicketURL
	}

	app.useCases = &UseCases{
		RelayTicket: ticket.NewRelayTicketUseCase(
			app.clients.Zendesk,
			app.clients.Zendesk,
			app.clients.Slack,
			ticket.NewMessageBuilder(ticket.NewTimeNormalizer(loc), opts),
			&slogAdapter{logger: app.logger},
			app.telemetry.Metrics,
		),
	}

	return nil
}
