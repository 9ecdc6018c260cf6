package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/templui/fitgoals/internal/db"
)

type migrateOptions struct {
	driver     string
	connection string
	database   string
}

func MigrateCmd() *cobra.Command {
	// Load .env file if it exists so flags default to the app's settings
	_ = godotenv.Load()

	opts := &migrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema (goose for sqlite/pgx, indexes for mongo)",
	}

	cmd.PersistentFlags().StringVar(&opts.driver, "driver", envOr("DB_DRIVER", "mongo"), "database driver: mongo, sqlite or pgx")
	cmd.PersistentFlags().StringVar(&opts.connection, "dsn", envOr("DB_CONNECTION", "mongodb://localhost:27017"), "database connection string")
	cmd.PersistentFlags().StringVar(&opts.database, "mongo-database", envOr("MONGO_DATABASE", "fitgoals"), "mongo database name")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrateUp(cmd.Context(), opts)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSQL(opts, db.MigrateDown)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSQL(opts, db.MigrationStatus)
			},
		},
	)

	return cmd
}

func migrateUp(ctx context.Context, opts *migrateOptions) error {
	if opts.driver != "mongo" {
		return withSQL(opts, db.RunMigrations)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// ConnectMongo creates the indexes the repositories rely on
	mdb, err := db.ConnectMongo(ctx, opts.connection, opts.database)
	if err != nil {
		return err
	}
	defer func() { _ = db.CloseMongo(context.Background(), mdb) }()

	fmt.Println("mongo indexes are up to date")
	return nil
}

func withSQL(opts *migrateOptions, fn func(*sql.DB, string) error) error {
	if opts.driver == "mongo" {
		return fmt.Errorf("migrate down/status only apply to sqlite and pgx")
	}

	database, err := db.Init(opts.driver, opts.connection)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(database) }()

	return fn(database.DB, opts.driver)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
