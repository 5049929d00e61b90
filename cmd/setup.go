package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ytimport/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the bundled config template to disk.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if _, err := os.Stat(path); err == nil {
		if !cmd.Bool("force") {
			return fmt.Errorf("%w: %s already exists (use --force to overwrite)", shared.ErrInvalidArgument, path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to replace config file: %w", err)
		}
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Configuration written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.youtube.proxy_url and headers_path\n")
	r.writePlain("2. Run 'ytimport import your_tracks.csv --dry-run' to preview matches\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations. With --rollback the most recent
// migration is then undone.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		r.logger.Info("rolled back latest migration", "path", r.config.Database.Path)
		return r.writePlain("✓ Rolled back latest migration in %s\n", r.config.Database.Path)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
}
