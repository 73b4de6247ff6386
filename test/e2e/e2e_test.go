//go:build e2e

package e2e

import (
	"net/http"
	"strings"
	"testing"

	"github.com/qj0r9j0vc2/ticket-bridge/test/e2e/helpers"
)

// setup waits for the stack and clears mock state.
func setup(t *testing.T) {
	t.Helper()
	helpers.WaitForAllServices(t)
	helpers.ResetMockServices(t)
}

// TestE2ESetup verifies the E2E environment is properly set up
func TestE2ESetup(t *testing.T) {
	setup(t)

	if err := helpers.ServiceHealthCheck(helpers.BridgeURL + "/ready"); err != nil {
		t.Fatalf("Bridge is not ready: %v", err)
	}

	t.Log("✓ E2E environment is ready")
}

// TestTicketRelayedToSlack tests a ticket with comments and an attachment
func TestTicketRelayedToSlack(t *testing.T) {
	setup(t)

	resp := helpers.SendWebhook(t, helpers.GetWebhookFixture("ticket_with_comments"))
	if resp.StatusCode != http.StatusOK || resp.Body != "OK" {
		t.Fatalf("Expected 200 OK, got %d %q", resp.StatusCode, resp.Body)
	}

	helpers.AssertSlackMessageCount(t, 1)
	msg := helpers.AssertSlackMessageReceived(t, "Pesanan belum sampai")

	helpers.AssertBlockTypes(t, msg, "section", "divider", "header", "section", "section", "image")

	summary := helpers.BlockText(msg, 0)
	for _, want := range []string{
		"*Ticket ID:* <https://",
		"|42>",
		"*Status:* open",
		"*Requester:* Budi Santoso",
		"*Email:* budi@example.com",
		"*Phone:* +62811000111",
		"*Channel:* email",
	} {
		if !strings.Contains(summary, want) {
			t.Fatalf("Summary %q does not contain %q", summary, want)
		}
	}

	helpers.AssertSlackMessageContains(t, msg, "Budi Santoso (02-01-2024 10:04)")
	helpers.AssertSlackMessageContains(t, msg, "Sari Wulandari (02-01-2024 11:10)")
	helpers.AssertSlackMessageContains(t, msg, "resi.png")

	helpers.AssertZendeskCalls(t, "/api/v2/tickets/42/comments.json", 1)
	t.Log("✓ Ticket successfully relayed to Slack")
}

// TestAuthorLookedUpOncePerRelay tests that repeated authors hit Zendesk once
func TestAuthorLookedUpOncePerRelay(t *testing.T) {
	setup(t)

	resp := helpers.SendWebhook(t, helpers.GetWebhookFixture("string_ticket_id"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d %q", resp.StatusCode, resp.Body)
	}

	msg := helpers.AssertSlackMessageReceived(t, "Dua pertanyaan")
	helpers.AssertBlockTypes(t, msg, "section", "divider", "header", "section", "section", "section")

	// Comments at 20:30 UTC on Dec 31 land on Jan 1 in Jakarta.
	helpers.AssertSlackMessageContains(t, msg, "(01-01-2025 03:30)")
	helpers.AssertSlackMessageContains(t, msg, "Rina Admin")

	helpers.AssertZendeskCalls(t, "/api/v2/users/1001.json", 1)
	helpers.AssertZendeskCalls(t, "/api/v2/users/2002.json", 1)
}

// TestDeletedAuthorFallsBack tests a comment whose author no longer exists
func TestDeletedAuthorFallsBack(t *testing.T) {
	setup(t)

	resp := helpers.SendWebhook(t, helpers.GetWebhookFixture("deleted_author"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d %q", resp.StatusCode, resp.Body)
	}

	msg := helpers.AssertSlackMessageReceived(t, "Akun lama")
	helpers.AssertSlackMessageContains(t, msg, "Komentar dari pengguna yang sudah dihapus.")
	helpers.AssertSlackMessageContains(t, msg, "*Phone:* -")
}

// TestCommentsUnavailable tests that a Zendesk outage still produces a message
func TestCommentsUnavailable(t *testing.T) {
	setup(t)

	resp := helpers.SendWebhook(t, helpers.GetWebhookFixture("comments_unavailable"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d %q", resp.StatusCode, resp.Body)
	}

	msg := helpers.AssertSlackMessageReceived(t, "Zendesk sedang bermasalah")
	helpers.AssertBlockTypes(t, msg, "section", "divider", "header")
}

// TestMissingTicketID tests that a webhook without an id is rejected before any call
func TestMissingTicketID(t *testing.T) {
	setup(t)

	resp := helpers.SendWebhook(t, helpers.GetWebhookFixture("missing_ticket_id"))
	if resp.StatusCode != http.StatusBadRequest || resp.Body != "No ticket id" {
		t.Fatalf("Expected 400 No ticket id, got %d %q", resp.StatusCode, resp.Body)
	}

	helpers.AssertSlackMessageCount(t, 0)
	helpers.AssertNoZendeskCalls(t)
}

// TestMalformedWebhook tests that an unparseable body is rejected
func TestMalformedWebhook(t *testing.T) {
	setup(t)

	resp := helpers.SendWebhook(t, helpers.GetWebhookFixture("malformed"))
	if resp.StatusCode != http.StatusBadRequest || !strings.HasPrefix(resp.Body, "Invalid JSON: ") {
		t.Fatalf("Expected 400 Invalid JSON, got %d %q", resp.StatusCode, resp.Body)
	}

	helpers.AssertSlackMessageCount(t, 0)
	helpers.AssertNoZendeskCalls(t)
}

// TestSlackRejection tests that a Slack error is reported to Zendesk
func TestSlackRejection(t *testing.T) {
	setup(t)
	helpers.ForceSlackFailure(t, http.StatusForbidden, "invalid_token")

	resp := helpers.SendWebhook(t, helpers.GetWebhookFixture("ticket_with_comments"))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d %q", resp.StatusCode, resp.Body)
	}
	if !strings.HasPrefix(resp.Body, "Slack error: ") || !strings.Contains(resp.Body, "invalid_token") {
		t.Fatalf("Unexpected body %q", resp.Body)
	}

	helpers.AssertSlackMessageCount(t, 0)
}
