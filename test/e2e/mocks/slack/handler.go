package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// webhookPath is the prefix of every Slack incoming webhook URL.
const webhookPath = "/services/"

// WebhookMessage is the body of an incoming webhook POST.
type WebhookMessage struct {
	Text   string                   `json:"text,omitempty"`
	Blocks []map[string]interface{} `json:"blocks,omitempty"`
}

// StoredMessage is a webhook message accepted by the mock.
type StoredMessage struct {
	WebhookMessage
	Path       string    `json:"path"`
	ReceivedAt time.Time `json:"received_at"`
}

// failure forces every webhook to be rejected until reset.
type failure struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// MockSlackHandler emulates Slack incoming webhooks.
type MockSlackHandler struct {
	mu       sync.RWMutex
	messages []StoredMessage
	failure  *failure
}

// NewMockSlackHandler creates a new mock Slack handler
func NewMockSlackHandler() *MockSlackHandler {
	return &MockSlackHandler{
		messages: make([]StoredMessage, 0),
	}
}

// ServeHTTP implements the http.Handler interface
func (h *MockSlackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/health":
		h.handleHealth(w, r)
	case strings.HasPrefix(r.URL.Path, webhookPath):
		h.handleWebhook(w, r)
	case r.URL.Path == "/api/test/messages":
		h.handleGetMessages(w, r)
	case r.URL.Path == "/api/test/fail":
		h.handleFail(w, r)
	case r.URL.Path == "/api/test/reset":
		h.handleReset(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *MockSlackHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleWebhook validates and stores a webhook message.
// Responses mirror Slack: plain text "ok" on success, an error code otherwise.
func (h *MockSlackHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.mu.RLock()
	forced := h.failure
	h.mu.RUnlock()
	if forced != nil {
		writeText(w, forced.Status, forced.Body)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeText(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	var msg WebhookMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		writeText(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	if msg.Text == "" && len(msg.Blocks) == 0 {
		writeText(w, http.StatusBadRequest, "no_text")
		return
	}

	if err := validateBlocks(msg.Blocks); err != nil {
		writeText(w, http.StatusBadRequest, "invalid_blocks: "+err.Error())
		return
	}

	h.mu.Lock()
	h.messages = append(h.messages, StoredMessage{
		WebhookMessage: msg,
		Path:           r.URL.Path,
		ReceivedAt:     time.Now(),
	})
	h.mu.Unlock()

	writeText(w, http.StatusOK, "ok")
}

// handleGetMessages returns stored messages (test helper endpoint).
// The optional contains filter matches against the serialized blocks.
func (h *MockSlackHandler) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	needle := r.URL.Query().Get("contains")

	h.mu.RLock()
	result := make([]StoredMessage, 0, len(h.messages))
	for _, msg := range h.messages {
		if needle != "" && !containsText(msg, needle) {
			continue
		}
		result = append(result, msg)
	}
	h.mu.RUnlock()

	writeJSON(w, http.StatusOK, result)
}

// handleFail makes every following webhook fail with the given status and body.
func (h *MockSlackHandler) handleFail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var f failure
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if f.Status == 0 {
		f.Status = http.StatusInternalServerError
	}

	h.mu.Lock()
	h.failure = &f
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "failure_armed", "code": f.Status})
}

// handleReset clears stored messages and any forced failure (test helper endpoint)
func (h *MockSlackHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	cleared := len(h.messages)
	h.messages = make([]StoredMessage, 0)
	h.failure = nil
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "reset_complete",
		"messages_cleared": cleared,
	})
}

// validateBlocks checks the Block Kit types the bridge emits.
func validateBlocks(blocks []map[string]interface{}) error {
	for i, block := range blocks {
		blockType, ok := block["type"].(string)
		if !ok {
			return fmt.Errorf("block[%d] missing required 'type' field", i)
		}

		switch blockType {
		case "header":
			if err := validateText(block, i, "plain_text"); err != nil {
				return err
			}
		case "section":
			if err := validateText(block, i, "mrkdwn"); err != nil {
				return err
			}
		case "image":
			if _, ok := block["image_url"].(string); !ok {
				return fmt.Errorf("block[%d] image missing 'image_url'", i)
			}
			if _, ok := block["alt_text"].(string); !ok {
				return fmt.Errorf("block[%d] image missing 'alt_text'", i)
			}
		case "divider":
		default:
			return fmt.Errorf("block[%d] has unsupported type: %s", i, blockType)
		}
	}
	return nil
}

func validateText(block map[string]interface{}, index int, want string) error {
	text, ok := block["text"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("block[%d] missing required 'text' field", index)
	}
	if textType, _ := text["type"].(string); textType != want {
		return fmt.Errorf("block[%d] text must have type '%s'", index, want)
	}
	if _, ok := text["text"].(string); !ok {
		return fmt.Errorf("block[%d] text missing 'text' string", index)
	}
	return nil
}

func containsText(msg StoredMessage, needle string) bool {
	if strings.Contains(msg.Text, needle) {
		return true
	}
	blocksJSON, _ := json.Marshal(msg.Blocks)
	return strings.Contains(string(blocksJSON), needle)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
