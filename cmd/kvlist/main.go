package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"kvlist-go/internal/config"
	"kvlist-go/internal/console"
	"kvlist-go/internal/session"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the TOML config file")
	flag.Parse()

	appConfig, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the menu
	setupLogging(os.Stderr, appConfig.Log.Level)

	if err := run(appConfig, os.Stdin, os.Stdout); err != nil {
		slog.Error("Console failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, in io.Reader, out io.Writer) error {
	sess, err := session.Open(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	return console.NewMenu(in, out, sess).Run()
}

func setupLogging(w io.Writer, logLevel string) {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
