package helpers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

// Service base URLs, overridable through the environment.
var (
	BridgeURL      = envOr("E2E_BRIDGE_URL", "http://localhost:9080")
	MockSlackURL   = envOr("E2E_MOCK_SLACK_URL", "http://localhost:9091")
	MockZendeskURL = envOr("E2E_MOCK_ZENDESK_URL", "http://localhost:9094")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// WaitForService waits for a service to become healthy
func WaitForService(t *testing.T, healthURL string, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("Service %s did not become healthy within %v", healthURL, timeout)
		case <-ticker.C:
			if err := ServiceHealthCheck(healthURL); err == nil {
				t.Logf("✓ Service %s is healthy", healthURL)
				return
			}
		}
	}
}

// WaitForAllServices waits for all E2E services to become healthy
func WaitForAllServices(t *testing.T) {
	t.Helper()

	services := map[string]string{
		"ticket-bridge": BridgeURL + "/health",
		"mock-slack":    MockSlackURL + "/health",
		"mock-zendesk":  MockZendeskURL + "/health",
	}

	for name, url := range services {
		t.Logf("Waiting for %s to become healthy...", name)
		WaitForService(t, url, 60*time.Second)
	}

	t.Log("✓ All services are healthy")
}

// ResetMockServices resets the state of all mock services
func ResetMockServices(t *testing.T) {
	t.Helper()

	for name, url := range map[string]string{
		"mock Slack":   MockSlackURL + "/api/test/reset",
		"mock Zendesk": MockZendeskURL + "/api/test/reset",
	} {
		resp, err := http.Post(url, "application/json", nil)
		if err != nil {
			t.Fatalf("Failed to reset %s: %v", name, err)
		}
		resp.Body.Close()
	}

	t.Log("✓ Mock services reset")
}

// ServiceHealthCheck performs a health check on a service
func ServiceHealthCheck(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
