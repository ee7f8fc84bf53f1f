package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"sortify/src/features/auth"
	"sortify/src/features/config"
	"sortify/src/features/history"
	"sortify/src/features/hosting"
	"sortify/src/features/jobs"
	"sortify/src/features/logging"
	"sortify/src/features/matching"
	"sortify/src/infra/database"
	"sortify/src/infra/spotify"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Reload configuration when the file changes on disk
	watcher, err := config.NewWatcher(cfgManager)
	if err != nil {
		slog.Error("Failed to create config watcher", "error", err)
	} else if err := watcher.Start(); err != nil {
		slog.Error("Failed to start config watcher", "error", err)
	} else {
		defer watcher.Stop()
	}

	// Spotify access: OAuth flow plus the catalog client on top of it
	authService := auth.NewService(cfgManager)
	catalog := spotify.NewClient(authService)

	// Durable match history
	db, err := database.NewSqliteHistory(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to open match history database: %v", err)
	}
	defer db.Close()

	// Create the matching service
	cacheTTL := time.Duration(cfgManager.Get().Matching.CacheTTLMinutes) * time.Minute
	profileCache := matching.NewProfileCache(cacheTTL)
	matchingService := matching.NewService(catalog, profileCache, cfgManager)
	historyService := history.NewService(catalog, db)

	// Create the job service and register the organize task
	jobService := jobs.NewService(&cfgManager.Get().Jobs)
	organizeTask := matching.NewAutoOrganizeTask(matchingService, db)
	jobService.RegisterHandler(matching.AutoOrganizeJobType, jobs.NewBaseTaskHandler(organizeTask))

	scheduler := jobs.NewScheduler(cfgManager, jobService)
	scheduler.Start()
	defer scheduler.Stop()

	// Create and start the Telegram bot if enabled
	var telegramBot *hosting.TelegramBot
	if cfgManager.Get().Telegram.Enabled {
		var err error
		telegramBot, err = hosting.NewTelegramBot(cfgManager, matchingService, jobService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			go telegramBot.Start()
			slog.Info("Telegram bot started")
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, authService, matchingService, historyService, db, jobService)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down server...")

	// Shutdown the Telegram bot
	if telegramBot != nil {
		telegramBot.Stop()
		slog.Info("Telegram bot stopped")
	}

	// Shutdown the server
	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
