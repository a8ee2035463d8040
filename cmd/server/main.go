package main

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/database"
	"trade-journal-go/internal/logger"
	"trade-journal-go/internal/web"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to the database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	router := web.NewRouter(&cfg, log, db)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting trade journal server", zap.String("address", addr))

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Web server failed", zap.Error(err))
	}
}
