package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// FixturesDir is relative to the e2e package directory, where go test runs.
var FixturesDir = envOr("E2E_FIXTURES_DIR", "fixtures")

// GetWebhookFixture loads a Zendesk webhook body by name
func GetWebhookFixture(name string) string {
	fixture, ok := GetAllWebhookFixtures()[name]
	if !ok {
		panic("Fixture not found: " + name)
	}
	return fixture
}

// GetAllWebhookFixtures loads all Zendesk webhook bodies
func GetAllWebhookFixtures() map[string]string {
	data, err := os.ReadFile(filepath.Join(FixturesDir, "webhooks.yaml"))
	if err != nil {
		panic("Failed to read webhooks.yaml: " + err.Error())
	}

	var fixtures map[string]string
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		panic("Failed to parse webhooks.yaml: " + err.Error())
	}

	return fixtures
}

// WebhookResponse is the bridge's reply to a webhook.
type WebhookResponse struct {
	StatusCode int
	Body       string
}

// SendWebhook posts a Zendesk webhook body to the bridge.
func SendWebhook(t *testing.T, body string) WebhookResponse {
	t.Helper()

	resp, err := http.Post(BridgeURL+"/zendesk-webhook", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to send webhook: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read webhook response: %v", err)
	}

	t.Logf("Webhook response: %d %s", resp.StatusCode, string(raw))
	return WebhookResponse{StatusCode: resp.StatusCode, Body: string(raw)}
}

// ForceSlackFailure makes the mock Slack reject webhooks until reset.
func ForceSlackFailure(t *testing.T, status int, body string) {
	t.Helper()

	payload, _ := json.Marshal(map[string]interface{}{"status": status, "body": body})
	resp, err := http.Post(MockSlackURL+"/api/test/fail", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to arm mock Slack failure: %v", err)
	}
	resp.Body.Close()
}
