package main

import (
	"context"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"bootdw/adapters/postgres"
	"bootdw/adapters/rng"
	"bootdw/adapters/stats/autocorr"
	"bootdw/app"
	"bootdw/internal"
	"bootdw/internal/api"
	"bootdw/internal/config"
	"bootdw/ports"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading configuration: %v", err)
		os.Exit(1)
	}

	var repo ports.ResultRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			logger.Error("connecting to database: %v", err)
			os.Exit(1)
		}
		defer db.Close()

		pgRepo := postgres.NewResultRepository(db)
		if err := pgRepo.EnsureSchema(context.Background()); err != nil {
			logger.Error("ensuring schema: %v", err)
			os.Exit(1)
		}
		repo = pgRepo
		logger.Info("result persistence enabled")
	} else {
		logger.Info("DATABASE_URL not set, results are not persisted")
	}

	runner := autocorr.NewRunner(rng.NewAdapter())
	battery := app.NewBatteryService(runner, repo)
	server := api.NewServer(runner, battery, cfg, logger)

	addr := ":" + cfg.Server.Port
	logger.Info("serial-correlation API listening on %s", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
