package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/config"
)

func named(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, name)
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNewRouter_Routes(t *testing.T) {
	router := NewRouter(&Handlers{
		ZendeskWebhook: named("zendesk"),
		Health:         named("health"),
		Ready:          named("ready"),
		Metrics:        named("metrics"),
	}, testLogger(), nil)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{path: "/zendesk-webhook", wantStatus: http.StatusOK, wantBody: "zendesk"},
		{path: "/webhook/zendesk", wantStatus: http.StatusOK, wantBody: "zendesk"},
		{path: "/health", wantStatus: http.StatusOK, wantBody: "health"},
		{path: "/", wantStatus: http.StatusOK, wantBody: "health"},
		{path: "/ready", wantStatus: http.StatusOK, wantBody: "ready"},
		{path: "/metrics", wantStatus: http.StatusOK, wantBody: "metrics"},
		{path: "/unknown", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestNewRouter_RecoversPanics(t *testing.T) {
	router := NewRouter(&Handlers{
		ZendeskWebhook: http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
	}, testLogger(), &RouterConfig{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/zendesk-webhook", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(config.ServerConfig{
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}, named("health"), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "health", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
