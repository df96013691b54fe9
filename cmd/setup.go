package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/tracklab/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase writes the example config when none exists, then creates the compositions table.
//
// Re-running against an existing database only verifies the schema.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}
	shared.SetLogLevel(r.logger, config.LogLevel())

	target := config.Database.Path
	if dialect, _ := shared.DialectFor(config.Database.Driver); dialect == shared.DialectPostgres {
		target = string(dialect)
	}
	r.logger.Info("initializing database", "driver", config.Database.Driver, "target", target, "identity", config.Store.Identity)

	_, closeStore, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer closeStore()

	r.logger.Infof("setup complete for database: %v", target)
	return r.writePlain("✓ compositions table ready (%s, %s ids)\n", config.Database.Driver, config.Store.Identity)
}
