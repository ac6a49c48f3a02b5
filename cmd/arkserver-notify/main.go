package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Whiskey24/arkserver-notify/internal/config"
	"github.com/Whiskey24/arkserver-notify/internal/notify"
	"github.com/Whiskey24/arkserver-notify/internal/poller"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set up logging
	setupLogging(cfg.LogLevel)

	slog.Info("Starting Ark server notifier", "servers", cfg.Servers, "dryRun", cfg.DryRun)

	registry, err := buildRegistry(cfg)
	if err != nil {
		slog.Error("Failed to set up notifiers", "error", err)
		os.Exit(1)
	}

	runner := poller.New(cfg, registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DaemonIntervalSeconds > 0 {
		// Stop the loop on interrupt
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			slog.Info("Shutting down...")
			cancel()
		}()

		runner.Run(ctx, time.Duration(cfg.DaemonIntervalSeconds)*time.Second)
	} else {
		runner.RunOnce(ctx)
	}

	slog.Info("Done")
}

// buildRegistry registers a notifier for every transport the configured
// servers use. In dry-run mode every transport is replaced by a
// logging stand-in.
func buildRegistry(cfg *config.Config) (*notify.Registry, error) {
	registry := notify.NewRegistry()

	kinds := make(map[notify.Kind]bool)
	for _, sc := range cfg.ServerConfigs {
		kinds[notify.Kind(sc.Notify)] = true
	}

	for kind := range kinds {
		if cfg.DryRun {
			registry.Register(notify.LogOnly{Transport: kind})
			continue
		}
		switch kind {
		case notify.KindTelegram:
			registry.Register(notify.NewTelegram(cfg.TelegramBotToken))
		case notify.KindDiscord:
			d, err := notify.NewDiscord(cfg.DiscordBotToken)
			if err != nil {
				return nil, err
			}
			registry.Register(d)
		}
	}

	return registry, nil
}

func setupLogging(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
