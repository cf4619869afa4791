package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mgarza-dev/shopledger/internal/importer"
	"github.com/mgarza-dev/shopledger/internal/ledger"
	"github.com/mgarza-dev/shopledger/internal/orders"
	"github.com/mgarza-dev/shopledger/internal/registry"
	"github.com/mgarza-dev/shopledger/internal/reports"
	"github.com/mgarza-dev/shopledger/internal/txn"
	"github.com/mgarza-dev/shopledger/pkg/config"
	"github.com/mgarza-dev/shopledger/pkg/db"
	"github.com/mgarza-dev/shopledger/pkg/logger"
)

// Services bundles everything the console surface operates on.
type Services struct {
	Registry *registry.Registry
	Orders   *orders.Service
	Ledger   *ledger.Service
	Reports  *reports.Service
	Importer *importer.Service
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "console"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "console",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := dbClient.Ping(context.Background()); err != nil {
		logg.Error(context.Background(), "database unreachable", err)
		os.Exit(1)
	}

	if _, err := buildServices(dbClient, logg); err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":        cfg.App.Env,
		"session_id": uuid.New().String(),
	})
	logg.Info(ctx, "console ready")
}

func buildServices(dbClient *db.Client, logg *logger.Logger) (*Services, error) {
	conn := dbClient.DB()
	reg := registry.New(conn)
	runner := txn.NewRunner(conn)

	orderService, err := orders.NewService(reg.Orders(), reg.Customers(), reg.Products(), runner)
	if err != nil {
		return nil, err
	}

	ledgerService, err := ledger.NewService(reg.Transfers(), reg.Customers(), runner)
	if err != nil {
		return nil, err
	}

	reportService, err := reports.NewService(conn)
	if err != nil {
		return nil, err
	}

	importService, err := importer.NewService(reg.Customers(), reg.Products(), runner, logg)
	if err != nil {
		return nil, err
	}

	return &Services{
		Registry: reg,
		Orders:   orderService,
		Ledger:   ledgerService,
		Reports:  reportService,
		Importer: importService,
	}, nil
}
