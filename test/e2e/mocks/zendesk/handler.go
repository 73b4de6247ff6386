package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Fixtures is the data served by the mock, loaded from YAML.
type Fixtures struct {
	Me      User                    `yaml:"me"`
	Users   []User                  `yaml:"users"`
	Tickets map[int64]TicketFixture `yaml:"tickets"`
}

// User mirrors the fields of a Zendesk user read by the bridge.
type User struct {
	ID   int64  `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Role string `yaml:"role" json:"role"`
}

// TicketFixture holds the comments of one ticket.
// A non-zero Status makes the comments endpoint fail with that code.
type TicketFixture struct {
	Status   int       `yaml:"status"`
	Comments []Comment `yaml:"comments"`
}

// Comment mirrors a Zendesk ticket comment.
type Comment struct {
	AuthorID    *int64       `yaml:"author_id" json:"author_id"`
	PlainBody   string       `yaml:"plain_body" json:"plain_body"`
	CreatedAt   string       `yaml:"created_at" json:"created_at"`
	Attachments []Attachment `yaml:"attachments" json:"attachments"`
}

// Attachment mirrors a Zendesk comment attachment.
type Attachment struct {
	ContentURL string `yaml:"content_url" json:"content_url"`
	FileName   string `yaml:"file_name" json:"file_name"`
}

// LoadFixtures reads fixtures from a YAML file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}

	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// MockZendeskHandler serves the Zendesk API endpoints used by the bridge.
type MockZendeskHandler struct {
	fixtures *Fixtures
	users    map[int64]User

	mu       sync.RWMutex
	requests map[string]int
}

// NewMockZendeskHandler creates a new mock Zendesk handler
func NewMockZendeskHandler(fixtures *Fixtures) *MockZendeskHandler {
	users := make(map[int64]User, len(fixtures.Users))
	for _, u := range fixtures.Users {
		users[u.ID] = u
	}
	return &MockZendeskHandler{
		fixtures: fixtures,
		users:    users,
		requests: make(map[string]int),
	}
}

// ServeHTTP implements the http.Handler interface
func (h *MockZendeskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/health":
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		return
	case path == "/api/test/requests":
		h.handleGetRequests(w, r)
		return
	case path == "/api/test/reset":
		h.handleReset(w, r)
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, _, ok := r.BasicAuth(); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Couldn't authenticate you"})
		return
	}

	// Readiness checks hit me.json; only relay traffic is counted.
	if path == "/api/v2/users/me.json" {
		writeJSON(w, http.StatusOK, map[string]User{"user": h.fixtures.Me})
		return
	}

	h.record(path)

	switch {
	case strings.HasPrefix(path, "/api/v2/tickets/") && strings.HasSuffix(path, "/comments.json"):
		h.handleComments(w, strings.TrimSuffix(strings.TrimPrefix(path, "/api/v2/tickets/"), "/comments.json"))
	case strings.HasPrefix(path, "/api/v2/users/") && strings.HasSuffix(path, ".json"):
		h.handleUser(w, strings.TrimSuffix(strings.TrimPrefix(path, "/api/v2/users/"), ".json"))
	default:
		http.NotFound(w, r)
	}
}

func (h *MockZendeskHandler) handleComments(w http.ResponseWriter, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "InvalidEndpoint"})
		return
	}

	ticket, ok := h.fixtures.Tickets[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "RecordNotFound"})
		return
	}
	if ticket.Status != 0 {
		writeJSON(w, ticket.Status, map[string]string{"error": http.StatusText(ticket.Status)})
		return
	}

	comments := ticket.Comments
	if comments == nil {
		comments = []Comment{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"comments":  comments,
		"next_page": nil,
		"count":     len(comments),
	})
}

func (h *MockZendeskHandler) handleUser(w http.ResponseWriter, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "InvalidEndpoint"})
		return
	}

	user, ok := h.users[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "RecordNotFound"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]User{"user": user})
}

// handleGetRequests returns how many times each API path was hit (test helper endpoint)
func (h *MockZendeskHandler) handleGetRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.mu.RLock()
	counts := make(map[string]int, len(h.requests))
	for k, v := range h.requests {
		counts[k] = v
	}
	h.mu.RUnlock()

	writeJSON(w, http.StatusOK, counts)
}

// handleReset clears the request counters (test helper endpoint)
func (h *MockZendeskHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	cleared := len(h.requests)
	h.requests = make(map[string]int)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "reset_complete",
		"paths_cleared": cleared,
	})
}

func (h *MockZendeskHandler) record(path string) {
	h.mu.Lock()
	h.requests[path]++
	h.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
