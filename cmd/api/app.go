package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

// bootstrap loads configuration, sets up logging and opens the database.
func bootstrap(ctx context.Context, migrate bool) (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger.Init(logger.Config{Level: cfg.LogLevel, JSONOutput: cfg.LogJSON})

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if migrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		log := logger.WithComponent("main")
		log.Info().Msg("schema up to date")
	}

	return cfg, db, nil
}
