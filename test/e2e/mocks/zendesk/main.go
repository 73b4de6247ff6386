package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "9094"
	}

	fixturesPath := os.Getenv("FIXTURES_PATH")
	if fixturesPath == "" {
		fixturesPath = "test/e2e/fixtures/zendesk.yaml"
	}

	fixtures, err := LoadFixtures(fixturesPath)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: NewMockZendeskHandler(fixtures),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down mock Zendesk server...")
		if err := server.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("Mock Zendesk API server listening on port %s (%d tickets, %d users)",
		port, len(fixtures.Tickets), len(fixtures.Users))
	log.Println("Endpoints:")
	log.Println("  GET    /api/v2/tickets/{id}/comments.json - Ticket comments")
	log.Println("  GET    /api/v2/users/{id}.json            - User")
	log.Println("  GET    /api/v2/users/me.json              - Authenticated user")
	log.Println("  GET    /api/test/requests                 - Request counters (test helper)")
	log.Println("  POST   /api/test/reset                    - Reset mock state (test helper)")
	log.Println("  GET    /health                            - Health check")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped")
}
