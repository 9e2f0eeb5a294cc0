package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"

	"mygamelist/cmd/migration/initialize"
	"mygamelist/cmd/migration/seed"
	"mygamelist/config"
	"mygamelist/internal/database"
	"mygamelist/internal/repositories"
	"mygamelist/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

const (
	MIGRATION_PATH = "cmd/migration/migrations"
	MIGRATION_DB   = "postgres"
)

var (
	cfg config.Config
	db  database.DB
)

var rootCmd = &cobra.Command{
	Use:          "migration",
	Short:        "Schema migrations and catalog maintenance for mygamelist",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("migrations").Function("setup")

		var err error
		if cfg, err = config.New(); err != nil {
			return log.Err("failed to initialize config", err)
		}
		if db, err = database.New(cfg); err != nil {
			return log.Err("failed to create database", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return db.Close()
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply models, indexes and file migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrateUp(cmd.Context(), logger.New("migrations"))
	},
}

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back file migrations, one step by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			var err error
			if steps, err = strconv.Atoi(args[0]); err != nil || steps < 1 {
				return logger.New("migrations").Function("down").
					Error("invalid step count", "steps", args[0])
			}
		}
		return migrateDown(steps, logger.New("migrations"))
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the database and load development data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrateSeed(cmd.Context(), logger.New("migrations"))
	},
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Delete duplicate catalog rows, keeping the oldest per idGameBD",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("migrations").Function("dedupe")

		deleted, err := removeDuplicates(cmd.Context())
		if err != nil {
			return log.Err("failed to remove duplicate games", err)
		}
		log.Info("Duplicate sweep complete", "deleted", deleted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(upCmd, downCmd, seedCmd, dedupeCmd)
}

func migrateUp(ctx context.Context, log logger.Logger) error {
	log = log.Function("migrateUp")
	log.Info("Running migrations up")

	// Legacy data may hold duplicates that would block the unique index.
	if db.HasGamesTable() {
		deleted, err := removeDuplicates(ctx)
		if err != nil {
			return log.Err("failed to remove duplicate games", err)
		}
		log.Info("Removed duplicate games before migrating", "deleted", deleted)
	}

	if err := db.MigrateModels(); err != nil {
		return log.Err("failed to auto migrate", err)
	}

	if err := db.CreateIndexes(); err != nil {
		return log.Err("failed to create indexes", err)
	}

	if err := runMigrations(log, migrate.Up); err != nil {
		return log.Err("failed to run migrations", err)
	}

	if err := initialize.InitializeTables(db.SQL, cfg, log); err != nil {
		return log.Err("failed to initialize tables", err)
	}

	return nil
}

func migrateDown(steps int, log logger.Logger) error {
	log = log.Function("migrateDown")
	log.Info("Running migrations down", "steps", steps)

	for i := 0; i < steps; i++ {
		if err := runMigrations(log, migrate.Down); err != nil {
			return log.Err("failed to run migrations", err)
		}
	}

	return nil
}

func migrateSeed(ctx context.Context, log logger.Logger) error {
	log = log.Function("migrateSeed")
	log.Info("Running seed")

	if err := cleanDatabase(log); err != nil {
		return log.Err("failed to clean database", err)
	}

	if err := db.FlushAllCaches(); err != nil {
		return log.Err("failed to flush cache databases", err)
	}

	if err := migrateUp(ctx, log); err != nil {
		return log.Err("failed to migrate", err)
	}

	log.Info("Seeding database")
	if err := seed.Seed(db.SQL, cfg, log); err != nil {
		return log.Err("failed to seed database", err)
	}

	return nil
}

func removeDuplicates(ctx context.Context) (int64, error) {
	repos := repositories.New(db)
	dedupe := services.NewDedupeService(repos.Game, services.NewTransactionService(db))
	return dedupe.RemoveDuplicates(ctx)
}

func runMigrations(log logger.Logger, direction migrate.MigrationDirection) error {
	log = log.Function("runMigrations")

	if _, err := os.Stat(MIGRATION_PATH); os.IsNotExist(err) {
		log.Info("Migrations directory does not exist, skipping file-based migrations")
		return nil
	}

	files, err := filepath.Glob(filepath.Join(MIGRATION_PATH, "*.sql"))
	if err != nil {
		return log.Err("failed to check for migration files", err)
	}

	if len(files) == 0 {
		log.Info("No migration files found, skipping file-based migrations")
		return nil
	}

	migrations := &migrate.FileMigrationSource{
		Dir: MIGRATION_PATH,
	}

	sqlDB, err := sql.Open(MIGRATION_DB, database.DSN(cfg))
	if err != nil {
		return log.Err("failed to open database for migrations", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}()

	n, err := migrate.ExecMax(sqlDB, MIGRATION_DB, migrations, direction, maxFor(direction))
	if err != nil {
		return log.Err("failed to run migrations", err)
	}

	if n == 0 {
		log.Info("No migrations to apply")
	} else {
		log.Info("Applied migrations", "migrationCount", n)
	}

	return nil
}

// maxFor applies every pending migration going up and one going down.
func maxFor(direction migrate.MigrationDirection) int {
	if direction == migrate.Down {
		return 1
	}
	return 0
}

func cleanDatabase(log logger.Logger) error {
	log = log.Function("cleanDatabase")
	log.Info("Cleaning database before seeding")

	if err := db.DropModels(); err != nil {
		return log.Err("failed to drop tables", err)
	}

	if err := runMigrations(log, migrate.Down); err != nil {
		log.Warn("failed to reset file migrations", "error", err)
	}

	log.Info("Database cleaned successfully")
	return nil
}
