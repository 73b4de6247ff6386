package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/adapter/dto"
	domainerrors "github.com/qj0r9j0vc2/ticket-bridge/internal/domain/errors"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/usecase/ticket"
)

// maxWebhookBody limits the size of an inbound webhook payload.
const maxWebhookBody = 1 << 20

// TicketRelayer runs one ticket event through the relay pipeline.
type TicketRelayer interface {
	Execute(ctx context.Context, input dto.RelayTicketInput) (*dto.RelayTicketOutput, error)
}

// ZendeskWebhookHandler handles Zendesk ticket event webhooks.
type ZendeskWebhookHandler struct {
	relay  TicketRelayer
	logger ticket.Logger
}

// NewZendeskWebhookHandler creates a new handler.
func NewZendeskWebhookHandler(relay TicketRelayer, logger ticket.Logger) *ZendeskWebhookHandler {
	return &ZendeskWebhookHandler{
		relay:  relay,
		logger: logger,
	}
}

// ServeHTTP handles POST /zendesk-webhook
//
// Responses are plain text:
//
//	200 OK
//	400 No ticket id
//	400 Invalid JSON: <detail>
//	500 Slack error: <detail>
func (h *ZendeskWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeText(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warn("failed to read zendesk payload", "error", err)
		writeText(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	payload, err := dto.DecodeZendeskWebhook(body)
	if err != nil {
		h.logger.Warn("failed to decode zendesk payload", "error", err)
		writeText(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	output, err := h.relay.Execute(r.Context(), payload.ToRelayTicketInput())
	if err != nil {
		status, msg := mapRelayError(err)
		h.logger.Error("failed to relay ticket",
			"ticket_id", ticketIDOf(output),
			"status", status,
			"error", err,
		)
		writeText(w, status, msg)
		return
	}

	h.logger.Info("ticket processed",
		"ticket_id", output.TicketID,
		"stage", output.Stage,
		"comments", output.CommentCount,
		"blocks", output.BlockCount,
	)
	writeText(w, http.StatusOK, "OK")
}

// mapRelayError converts a pipeline failure to an HTTP status and body.
func mapRelayError(err error) (int, string) {
	switch {
	case errors.Is(err, domainerrors.ErrMissingTicketID):
		return http.StatusBadRequest, "No ticket id"
	case domainerrors.IsDispatchError(err):
		return http.StatusInternalServerError, "Slack error: " + domainerrors.Detail(err)
	default:
		return http.StatusBadRequest, "Invalid JSON: " + domainerrors.Detail(err)
	}
}

func ticketIDOf(output *dto.RelayTicketOutput) int64 {
	if output == nil {
		return 0
	}
	return output.TicketID
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
