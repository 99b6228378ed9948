package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"finledger/internal/backup"
	"finledger/internal/config"
	"finledger/internal/services"
	"finledger/internal/shell"
	"finledger/internal/storage"
)

func main() {
	// .env is optional in production.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "❌ Invalid configuration:", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	// Logs go to stderr so tables and prompts own stdout.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	repo, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer repo.Close()

	sh := shell.New(os.Stdin, os.Stdout,
		services.NewAccountService(repo),
		services.NewLedgerService(repo),
		backup.NewManager(cfg.DBPath, cfg.BackupDir),
		repo,
		cfg.CurrencySymbol)

	// Unexpected session errors are reported once; the process still exits
	// with a zero status.
	if err := sh.Run(ctx); err != nil {
		fmt.Fprintln(os.Stdout, "❌ Application error:", err)
	}
}
