package zendesk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gozendesk "github.com/nukosuke/go-zendesk/zendesk"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/ticket-bridge/internal/domain/errors"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/repository"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/resilience"
)

// maxErrorBody caps how much of a failed response body is kept as error detail.
const maxErrorBody = 4 << 10

// API is the subset of the go-zendesk client used by the bridge.
type API interface {
	// ListTicketComments returns the first page of comments on a ticket.
	ListTicketComments(ctx context.Context, ticketID int64, opts *gozendesk.ListTicketCommentsOptions) (*gozendesk.ListTicketCommentsResult, error)

	// GetUser retrieves a single user.
	GetUser(ctx context.Context, userID int64) (gozendesk.User, error)

	// Get sends a raw GET for endpoints the SDK does not wrap.
	Get(ctx context.Context, path string) ([]byte, error)
}

// Client wraps the go-zendesk SDK.
// Implements repository.CommentRepository and repository.UserRepository.
type Client struct {
	api        API
	httpClient *http.Client
	baseURL    string
	domain     string
	breaker    *resilience.CircuitBreaker
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides https://{domain} as the API origin (for tests and E2E mocks).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d, Transport: c.httpClient.Transport}
	}
}

// WithCircuitBreaker fails calls fast while Zendesk keeps failing.
// Use NewCircuitBreaker so missing records do not count as failures.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *Client) {
		c.breaker = cb
	}
}

// NewCircuitBreaker creates a breaker that ignores repository.ErrNotFound.
func NewCircuitBreaker(maxFailures int, cooldown time.Duration) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker("zendesk", maxFailures, cooldown,
		resilience.WithFailurePredicate(func(err error) bool {
			return !errors.Is(err, repository.ErrNotFound)
		}),
	)
}

// NewClient creates a new Zendesk client authenticating with an API token.
func NewClient(domain, email, apiToken string, opts ...Option) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    "https://" + domain,
		domain:     domain,
	}
	for _, opt := range opts {
		opt(c)
	}

	api, err := gozendesk.NewClient(c.httpClient)
	if err != nil {
		return nil, fmt.Errorf("creating zendesk client: %w", err)
	}
	if err := api.SetEndpointURL(c.baseURL + "/api/v2"); err != nil {
		return nil, fmt.Errorf("setting zendesk endpoint: %w", err)
	}
	api.SetCredential(gozendesk.NewAPITokenCredential(email, apiToken))
	c.api = api

	return c, nil
}

// ListComments returns the first page of comments on a ticket.
func (c *Client) ListComments(ctx context.Context, ticketID int64) ([]*entity.Comment, error) {
	op := fmt.Sprintf("listing comments for ticket %d", ticketID)

	var result *gozendesk.ListTicketCommentsResult
	err := c.call(ctx, op, func() error {
		var err error
		result, err = c.api.ListTicketComments(ctx, ticketID, &gozendesk.ListTicketCommentsOptions{})
		return err
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return []*entity.Comment{}, nil
	}

	comments := make([]*entity.Comment, 0, len(result.TicketComments))
	for _, tc := range result.TicketComments {
		comments = append(comments, commentToEntity(tc))
	}
	return comments, nil
}

// GetUser returns the name and role of a user.
// Returns repository.ErrNotFound if the user does not exist.
func (c *Client) GetUser(ctx context.Context, userID int64) (*entity.AuthorRecord, error) {
	op := fmt.Sprintf("getting user %d", userID)

	var user gozendesk.User
	err := c.call(ctx, op, func() error {
		var err error
		user, err = c.api.GetUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if user.ID == 0 && user.Name == "" {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return userToEntity(user, userID), nil
}

// Ping verifies the credentials by fetching the authenticated user.
func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, "checking zendesk credentials", func() error {
		_, err := c.api.Get(ctx, "/users/me.json")
		return err
	})
}

// TicketURL returns the agent-facing URL of a ticket.
func (c *Client) TicketURL(ticketID int64) string {
	if c.domain == "" {
		return ""
	}
	return fmt.Sprintf("https://%s/agent/tickets/%d", c.domain, ticketID)
}

// Name returns the backend identifier.
func (c *Client) Name() string {
	return "zendesk"
}

// call runs one SDK request behind the circuit breaker and classifies its error.
func (c *Client) call(ctx context.Context, op string, fn func() error) error {
	err := c.breaker.Execute(ctx, func() error {
		return classifyError(op, fn())
	})
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return domainerrors.NewUpstreamError(op, 0, "circuit open", err)
	case err != nil && domainerrors.KindOf(err) == "":
		return domainerrors.NewUpstreamError(op, 0, "", err)
	}
	return err
}

// classifyError maps SDK failures onto UpstreamDegraded errors.
// A 404 additionally wraps repository.ErrNotFound.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	status, body, ok := apiErrorDetails(err)
	if !ok {
		return domainerrors.NewUpstreamError(op, 0, "", err)
	}

	upstreamErr := domainerrors.NewUpstreamError(op, status, body, err)
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %w", upstreamErr, repository.ErrNotFound)
	}
	return upstreamErr
}

// apiErrorDetails extracts the status and trimmed body of a non-2xx response.
func apiErrorDetails(err error) (int, string, bool) {
	var apiErr gozendesk.Error
	if !errors.As(err, &apiErr) {
		return 0, "", false
	}

	var body string
	if rc := apiErr.Body(); rc != nil {
		raw, _ := io.ReadAll(io.LimitReader(rc, maxErrorBody))
		_ = rc.Close()
		body = strings.TrimSpace(string(raw))
	}
	return apiErr.Status(), body, true
}
