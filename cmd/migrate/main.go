package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/decisionloom/decisionloom/internal/config"
	"github.com/decisionloom/decisionloom/internal/repository/postgres"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	sourceURL := os.Getenv("MIGRATIONS_URL")
	if sourceURL == "" {
		sourceURL = "file://migrations"
	}

	fmt.Printf("Running migrations against %s:%d...\n", cfg.Database.Host, cfg.Database.Port)

	if err := postgres.RunMigrations(cfg.Database.DSN(), sourceURL); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}
}
