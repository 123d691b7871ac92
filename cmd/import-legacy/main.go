// Command import-legacy loads a legacy JSON export into the SQLite
// database. It is a one-time migration tool: running it twice against the
// same database duplicates every record.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"financas/internal/config"
	"financas/internal/legacy"
	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentImport,
		Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	})
	applog.SetDefault(logger)

	cfg := config.Load()

	exportPath := flag.String("export", "", "path to the legacy JSON export (required)")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "path to the SQLite database")
	flag.Parse()

	if *exportPath == "" {
		fmt.Fprintln(os.Stderr, "usage: import-legacy -export <file.json> [-db <file.db>]")
		os.Exit(2)
	}

	export, err := legacy.LoadExport(*exportPath)
	if err != nil {
		logger.Error("Failed to load export", "error", err, "path", *exportPath)
		os.Exit(1)
	}

	// Opening the repository also applies any pending migrations.
	repo, err := storage.NewSQLiteRepository(*dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer repo.Close()

	svc := services.NewImportService(repo, repo)
	report, err := svc.Run(context.Background(), export)
	if err != nil {
		logger.Error("Import failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d transactions and %d cards (%d failed)\n",
		report.Transactions, report.Cards, report.Failed)
	for _, warning := range report.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}
