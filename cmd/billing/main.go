package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/adapter/cli"
	"github.com/lulumobiles3644-boop/lulu-billing/internal/adapter/storage"
	"github.com/lulumobiles3644-boop/lulu-billing/internal/config"
	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/service"
	"github.com/lulumobiles3644-boop/lulu-billing/internal/port"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	var (
		inventoryRepo port.InventoryRepository
		invoiceWriter port.InvoiceWriter
	)
	switch cfg.Storage {
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.SQLitePath, logger)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("failed to open sqlite store")
		}
		defer store.Close()
		inventoryRepo, invoiceWriter = store, store
	case "json":
		inventoryRepo = storage.NewJSONInventoryStore(cfg.DataFile, logger)
		invoiceWriter = storage.NewFileInvoiceWriter(cfg.InvoicesDir, logger)
	default:
		logger.Fatal().Str("storage", cfg.Storage).Msg("unknown storage backend")
	}

	inventory := service.NewInventoryService(inventoryRepo, logger)
	billing := service.NewBillingService(inventoryRepo, invoiceWriter, logger)

	menu := cli.NewMenu(inventory, billing, os.Stdin, os.Stdout, logger)
	if err := menu.Run(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("menu loop failed")
	}
}
