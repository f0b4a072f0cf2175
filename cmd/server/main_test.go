package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"kvlist-go/internal/config"
	"kvlist-go/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		expected slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"warning level", "warning", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"default level", "unknown", slog.LevelInfo},
		{"uppercase", "DEBUG", slog.LevelDebug},
		{"mixed case", "WaRn", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.logLevel))
		})
	}
}

func TestSetupLogging(t *testing.T) {
	setupLogging("error")
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelError))

	setupLogging("debug")
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupGinMode(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		expected string
	}{
		{"debug mode", "debug", gin.DebugMode},
		{"release mode for info", "info", gin.ReleaseMode},
		{"release mode for error", "error", gin.ReleaseMode},
		{"release mode for unknown", "unknown", gin.ReleaseMode},
		{"uppercase debug", "DEBUG", gin.DebugMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupGinMode(tt.logLevel)
			assert.Equal(t, tt.expected, gin.Mode())
		})
	}
}

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		entriesURL string
	}{
		{"default routes", "/entries"},
		{"custom routes", "/api/v1/entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Server.EntriesURL = tt.entriesURL
			sess := session.New(nil)
			defer sess.Close()

			router := gin.New()
			setupRoutes(router, sess, cfg)

			found := map[string]bool{}
			for _, route := range router.Routes() {
				found[route.Method+" "+route.Path] = true
			}
			assert.True(t, found["GET "+tt.entriesURL], "GET %s should be registered", tt.entriesURL)
			assert.True(t, found["POST "+tt.entriesURL], "POST %s should be registered", tt.entriesURL)
			assert.True(t, found["POST /save"])
			assert.True(t, found["POST /restore"])
			assert.Len(t, router.Routes(), 7)
		})
	}
}

func TestSetupRoutesHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sess := session.New(nil)
	defer sess.Close()
	router := gin.New()
	setupRoutes(router, sess, config.Default())

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"list entries", "GET", "/entries", http.StatusOK},
		{"insert without body", "POST", "/entries", http.StatusBadRequest},
		{"save without body", "POST", "/save", http.StatusBadRequest},
		{"snapshots disabled", "GET", "/snapshots", http.StatusBadRequest},
		{"non-existent endpoint", "GET", "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
