package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/adapter/dto"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/ticket-bridge/internal/domain/errors"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/slack"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/zendesk"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/usecase/ticket"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type stubRelayer struct {
	err    error
	inputs []dto.RelayTicketInput
}

func (s *stubRelayer) Execute(ctx context.Context, input dto.RelayTicketInput) (*dto.RelayTicketOutput, error) {
	s.inputs = append(s.inputs, input)
	out := &dto.RelayTicketOutput{TicketID: input.Event.ID, Stage: entity.StageSucceeded}
	if s.err != nil {
		out.Stage = entity.StageFailed
	}
	return out, s.err
}

func postWebhook(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/zendesk-webhook", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestZendeskWebhookHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		relayErr   error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			body:       `{"ticket":{"id":42}}`,
			wantStatus: http.StatusOK,
			wantBody:   "OK",
		},
		{
			name:       "missing ticket id",
			body:       `{"ticket":{}}`,
			relayErr:   domainerrors.ErrMissingTicketID,
			wantStatus: http.StatusBadRequest,
			wantBody:   "No ticket id",
		},
		{
			name:       "dispatch failure embeds backend text",
			body:       `{"ticket":{"id":42}}`,
			relayErr:   domainerrors.NewDispatchError("posting slack webhook", 500, "invalid_blocks", nil),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Slack error: invalid_blocks",
		},
		{
			name:       "processing failure",
			body:       `{"ticket":{"id":42}}`,
			relayErr:   domainerrors.NewMalformedInput("runtime error: index out of range", nil),
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid JSON: runtime error: index out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := &stubRelayer{err: tt.relayErr}
			h := NewZendeskWebhookHandler(relay, nopLogger{})

			w := postWebhook(h, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
			assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		})
	}
}

func TestZendeskWebhookHandler_MalformedJSON(t *testing.T) {
	for _, body := range []string{`{not json`, `{"ticket":{"id":"abc"}}`, ``} {
		relay := &stubRelayer{}
		h := NewZendeskWebhookHandler(relay, nopLogger{})

		w := postWebhook(h, body)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.True(t, strings.HasPrefix(w.Body.String(), "Invalid JSON: "), w.Body.String())
		assert.Empty(t, relay.inputs, "malformed payloads never reach the pipeline")
	}
}

func TestZendeskWebhookHandler_NumericStringID(t *testing.T) {
	relay := &stubRelayer{}
	h := NewZendeskWebhookHandler(relay, nopLogger{})

	w := postWebhook(h, `{"ticket":{"id":"42","subject":"Help","requester":{"name":"Ana"},"via":{"channel":"email"}}}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, relay.inputs, 1)
	assert.Equal(t, int64(42), relay.inputs[0].Event.ID)
	assert.Equal(t, "Ana", relay.inputs[0].Event.Requester.Name)
	assert.Equal(t, "email", relay.inputs[0].Event.Channel)
}

func TestZendeskWebhookHandler_NonNumericRequesterID(t *testing.T) {
	relay := &stubRelayer{}
	h := NewZendeskWebhookHandler(relay, nopLogger{})

	w := postWebhook(h, `{"ticket":{"id":42,"requester":{"id":"abc","name":"Ana"}}}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, relay.inputs, 1)
	assert.Zero(t, relay.inputs[0].Event.Requester.ID)
	assert.Equal(t, "Ana", relay.inputs[0].Event.Requester.Name)
}

func TestZendeskWebhookHandler_MethodNotAllowed(t *testing.T) {
	h := NewZendeskWebhookHandler(&stubRelayer{}, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/zendesk-webhook", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
}

// backends runs fake Zendesk and Slack servers and counts the calls they receive.
type backends struct {
	mu            sync.Mutex
	zendeskCalls  int
	slackPayloads []map[string]any
	slackStatus   int
	slackBody     string

	zendesk *httptest.Server
	slack   *httptest.Server
}

func newBackends(t *testing.T) *backends {
	t.Helper()
	b := &backends{slackStatus: http.StatusOK, slackBody: "ok"}

	b.zendesk = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.zendeskCalls++
		b.mu.Unlock()

		switch r.URL.Path {
		case "/api/v2/tickets/42/comments.json":
			_, _ = w.Write([]byte(`{"comments":[{"author_id":7,"plain_body":"Hi","created_at":"2024-01-02T03:04:05Z","attachments":[]}]}`))
		case "/api/v2/users/7.json":
			_, _ = w.Write([]byte(`{"user":{"id":7,"name":"Ana","role":"end-user"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(b.zendesk.Close)

	b.slack = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = json.Unmarshal(raw, &payload)

		b.mu.Lock()
		b.slackPayloads = append(b.slackPayloads, payload)
		status, body := b.slackStatus, b.slackBody
		b.mu.Unlock()

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(b.slack.Close)

	return b
}

func (b *backends) handler(t *testing.T) http.Handler {
	t.Helper()
	zd, err := zendesk.NewClient("acme.zendesk.com", "bot@acme.com", "secret", zendesk.WithBaseURL(b.zendesk.URL))
	require.NoError(t, err)
	sl := slack.NewWebhookClient(b.slack.URL, nopLogger{})
	builder := ticket.NewMessageBuilder(
		ticket.NewTimeNormalizer(time.FixedZone("WIB", 7*3600)),
		ticket.MessageOptions{TicketURL: zd.TicketURL},
	)
	uc := ticket.NewRelayTicketUseCase(zd, zd, sl, builder, nopLogger{}, nil)
	return NewZendeskWebhookHandler(uc, nopLogger{})
}

func TestZendeskWebhookHandler_EndToEnd(t *testing.T) {
	b := newBackends(t)

	w := postWebhook(b.handler(t), `{"ticket":{"id":42,"subject":"Help","status":"open","requester":{"id":7,"name":"Ana"}}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	require.Len(t, b.slackPayloads, 1)

	blocks := b.slackPayloads[0]["blocks"].([]any)
	require.Len(t, blocks, 4)

	var sections []string
	for _, raw := range blocks[3:] {
		block := raw.(map[string]any)
		if block["type"] == "section" {
			sections = append(sections, block["text"].(map[string]any)["text"].(string))
		}
	}
	assert.Equal(t, []string{"Ana (02-01-2024 10:04):\nHi"}, sections)

	summary := blocks[0].(map[string]any)["text"].(map[string]any)["text"].(string)
	assert.Contains(t, summary, "*Ticket ID:* <https://acme.zendesk.com/agent/tickets/42|42>")
	assert.Contains(t, summary, "*Email:* -")
}

func TestZendeskWebhookHandler_MissingIDMakesNoOutboundCalls(t *testing.T) {
	b := newBackends(t)

	w := postWebhook(b.handler(t), `{"ticket":{"subject":"Help"}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No ticket id", w.Body.String())
	assert.Zero(t, b.zendeskCalls)
	assert.Empty(t, b.slackPayloads)
}

func TestZendeskWebhookHandler_SlackRejection(t *testing.T) {
	b := newBackends(t)
	b.slackStatus = http.StatusInternalServerError
	b.slackBody = "invalid_blocks"

	w := postWebhook(b.handler(t), `{"ticket":{"id":42}}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Slack error: invalid_blocks", w.Body.String())
}

func TestMapRelayError_WrappedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domainerrors.ErrMissingTicketID)
	status, msg := mapRelayError(wrapped)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No ticket id", msg)
}
