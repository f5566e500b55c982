package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/rentpos-backend/pkg/config"
	"github.com/angelmondragon/rentpos-backend/pkg/db"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
)

// MaybeRun applies the embedded migrations at startup when the auto-migrate
// flag is set. SQLite ledgers are always migrated since they are usually
// created fresh.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate && client.Driver() != db.DriverSQLite {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": client.Driver()})
	logg.Info(ctx, "running goose migrations")

	if err := RunEmbedded(ctx, sqlDB, DialectFor(client.Driver()), "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
