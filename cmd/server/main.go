package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"kvlist-go/internal/api"
	"kvlist-go/internal/config"
	"kvlist-go/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the TOML config file")
	flag.Parse()

	// Load configuration
	appConfig, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	// Configure logging level
	setupLogging(appConfig.Server.LogLevel)

	// Configure Gin mode based on log level
	setupGinMode(appConfig.Server.LogLevel)

	slog.Info("Opening session",
		"codec", appConfig.Store.Codec,
		"four_byte_as", appConfig.Store.FourByteAs,
		"snapshots", appConfig.Snapshots.Enabled)
	sess, err := session.Open(appConfig)
	if err != nil {
		slog.Error("Error opening session", "error", err)
		os.Exit(1)
	}
	defer sess.Close()

	if path := appConfig.Store.DefaultFile; path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := sess.Restore(path); err != nil {
				slog.Warn("Could not restore default file", "path", path, "error", err)
			}
		}
	}

	if err := os.MkdirAll(appConfig.Server.DataDir, 0o755); err != nil {
		slog.Error("Error creating data dir", "path", appConfig.Server.DataDir, "error", err)
		os.Exit(1)
	}

	// Initialize Gin router
	router := gin.Default()

	// Set up API routes with configured URL suffixes
	setupRoutes(router, sess, appConfig)

	// Start the server
	addr := fmt.Sprintf(":%d", appConfig.Server.Port)
	slog.Info("Server listening", "address", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("Error starting server", "error", err)
		sess.Close()
		os.Exit(1)
	}
}

func parseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogging(logLevel string) {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	})
	slog.SetDefault(slog.New(handler))
}

func setupGinMode(logLevel string) {
	switch strings.ToLower(logLevel) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}

func setupRoutes(router *gin.Engine, sess *session.Session, cfg *config.AppConfig) {
	api.SetupRoutes(router, api.NewHandlers(sess, cfg.Server.DataDir), cfg.Server.EntriesURL)
}
