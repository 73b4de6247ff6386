package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/ticket-bridge/internal/domain/errors"
)

// maxResponseBody caps how much of the webhook response is kept.
const maxResponseBody = 4 << 10

// Logger interface for structured logging.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
}

// WebhookClient posts messages to a Slack incoming webhook.
// Implements the ticket.Dispatcher interface.
type WebhookClient struct {
	httpClient   *http.Client
	webhookURL   string
	strictStatus bool
	logger       Logger
}

// WebhookOption configures a WebhookClient.
type WebhookOption func(*WebhookClient)

// WithStrictStatus makes any status of 300 or above a failure instead of 400 or above.
func WithStrictStatus(strict bool) WebhookOption {
	return func(c *WebhookClient) {
		c.strictStatus = strict
	}
}

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) WebhookOption {
	return func(c *WebhookClient) {
		c.httpClient = &http.Client{Timeout: d, Transport: c.httpClient.Transport}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) WebhookOption {
	return func(c *WebhookClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewWebhookClient creates a new webhook client.
func NewWebhookClient(webhookURL string, logger Logger, opts ...WebhookOption) *WebhookClient {
	c := &WebhookClient{
		httpClient: &http.Client{},
		webhookURL: webhookURL,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send converts blocks to Block Kit and posts them once.
// A rejected or failed post is returned as a dispatch error carrying the response body.
func (c *WebhookClient) Send(ctx context.Context, blocks []entity.Block) error {
	const op = "posting slack webhook"

	slackBlocks, err := ToSlackBlocks(blocks)
	if err != nil {
		return domainerrors.NewDispatchError(op, 0, "", err)
	}

	payload, err := json.Marshal(NewWebhookMessage(slackBlocks))
	if err != nil {
		return domainerrors.NewDispatchError(op, 0, "", fmt.Errorf("marshaling payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return domainerrors.NewDispatchError(op, 0, "", fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return categorizeTransportError(err, op)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	body := strings.TrimSpace(string(raw))

	if c.rejected(resp.StatusCode) {
		c.logger.Error("slack webhook rejected message",
			"status", resp.StatusCode,
			"response", body,
			"blocks", len(blocks),
		)
		return domainerrors.NewDispatchError(op, resp.StatusCode, body, nil)
	}

	c.logger.Info("slack webhook response",
		"status", resp.StatusCode,
		"response", body,
		"blocks", len(blocks),
	)
	return nil
}

// Name returns the dispatcher identifier.
func (c *WebhookClient) Name() string {
	return "slack"
}

func (c *WebhookClient) rejected(status int) bool {
	if c.strictStatus {
		return status >= http.StatusMultipleChoices
	}
	return status >= http.StatusBadRequest
}

// categorizeTransportError wraps a failed round trip as a dispatch error.
func categorizeTransportError(err error, operation string) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domainerrors.NewDispatchError(operation+": context timeout", 0, "", err)
	case errors.As(err, &netErr):
		return domainerrors.NewDispatchError(operation+": network error", 0, "", err)
	default:
		return domainerrors.NewDispatchError(operation, 0, "", err)
	}
}
