package main

import (
	"context"
	"os"

	"github.com/exsolo/soloplay/internal/repositories"
	"github.com/exsolo/soloplay/internal/services"
	"github.com/exsolo/soloplay/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		logger.Fatalf("failed to run migrations: %v", err)
	}

	authAPI := services.NewAuthAPI(config.API.BaseURL, nil)
	songAPI := services.NewSongAPI(config.API.BaseURL, nil, logger, config.API.CounterRate)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Auth:    authAPI,
		Songs:   songAPI,
		Store:   repositories.NewTokenRepository(db),
		History: repositories.NewDownloadRepository(db),
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "soloplay",
		Usage:    "Terminal client for the Solo music streaming platform",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
