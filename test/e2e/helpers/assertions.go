package helpers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

// SlackMessage is a webhook message stored by the mock Slack service.
type SlackMessage struct {
	Text       string                   `json:"text"`
	Blocks     []map[string]interface{} `json:"blocks"`
	Path       string                   `json:"path"`
	ReceivedAt string                   `json:"received_at"`
}

// GetSlackMessages returns the messages received by the mock Slack,
// optionally filtered by a substring of their blocks.
func GetSlackMessages(t *testing.T, contains string) []SlackMessage {
	t.Helper()

	u := MockSlackURL + "/api/test/messages"
	if contains != "" {
		u += "?contains=" + url.QueryEscape(contains)
	}

	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("Failed to query mock Slack: %v", err)
	}
	defer resp.Body.Close()

	var messages []SlackMessage
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("Failed to decode Slack messages: %v", err)
	}
	return messages
}

// AssertSlackMessageReceived asserts that a Slack message containing text was received
func AssertSlackMessageReceived(t *testing.T, text string) SlackMessage {
	t.Helper()

	messages := GetSlackMessages(t, text)
	if len(messages) == 0 {
		t.Fatalf("Expected Slack message containing %q, but none found", text)
	}
	if len(messages) > 1 {
		t.Logf("Warning: Found %d Slack messages containing %q, returning first", len(messages), text)
	}
	return messages[0]
}

// AssertSlackMessageCount asserts the number of Slack messages received
func AssertSlackMessageCount(t *testing.T, expected int) {
	t.Helper()

	messages := GetSlackMessages(t, "")
	if len(messages) != expected {
		t.Fatalf("Expected %d Slack messages, got %d", expected, len(messages))
	}

	t.Logf("✓ Slack message count: %d", len(messages))
}

// AssertBlockTypes asserts the ordered block types of a message.
func AssertBlockTypes(t *testing.T, msg SlackMessage, expected ...string) {
	t.Helper()

	got := make([]string, 0, len(msg.Blocks))
	for _, b := range msg.Blocks {
		typ, _ := b["type"].(string)
		got = append(got, typ)
	}

	if strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Fatalf("Expected block types %v, got %v", expected, got)
	}
}

// BlockText returns the text of the block at index, or "" when it has none.
func BlockText(msg SlackMessage, index int) string {
	if index < 0 || index >= len(msg.Blocks) {
		return ""
	}
	text, ok := msg.Blocks[index]["text"].(map[string]interface{})
	if !ok {
		return ""
	}
	s, _ := text["text"].(string)
	return s
}

// AssertSlackMessageContains asserts that a Slack message contains expected text
func AssertSlackMessageContains(t *testing.T, msg SlackMessage, expectedText string) {
	t.Helper()

	if strings.Contains(msg.Text, expectedText) {
		return
	}

	blocksJSON, _ := json.Marshal(msg.Blocks)
	if strings.Contains(string(blocksJSON), expectedText) {
		return
	}

	t.Fatalf("Slack message does not contain expected text: %s", expectedText)
}

// GetZendeskRequests returns how many times each Zendesk API path was called.
func GetZendeskRequests(t *testing.T) map[string]int {
	t.Helper()

	resp, err := http.Get(MockZendeskURL + "/api/test/requests")
	if err != nil {
		t.Fatalf("Failed to query mock Zendesk: %v", err)
	}
	defer resp.Body.Close()

	var counts map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&counts); err != nil {
		t.Fatalf("Failed to decode Zendesk request counts: %v", err)
	}
	return counts
}

// AssertZendeskCalls asserts the number of calls made to a Zendesk API path.
func AssertZendeskCalls(t *testing.T, path string, expected int) {
	t.Helper()

	if got := GetZendeskRequests(t)[path]; got != expected {
		t.Fatalf("Expected %d calls to %s, got %d", expected, path, got)
	}
}

// AssertNoZendeskCalls asserts the Zendesk API was not called.
func AssertNoZendeskCalls(t *testing.T) {
	t.Helper()

	if counts := GetZendeskRequests(t); len(counts) != 0 {
		t.Fatalf("Expected no Zendesk calls, got %v", counts)
	}
}
