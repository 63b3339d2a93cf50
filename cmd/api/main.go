package main

import (
	"os"
	"portalmunicipal/cmd/internal/config"
	"portalmunicipal/cmd/internal/domain/sqlite"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	root := &cobra.Command{
		Use:           "portal",
		Short:         "Municipal portal backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the background jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, !skipMigrate)
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the schema on startup")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openDB(cfg, true)
			if err != nil {
				return err
			}

			log.Info("schema is up to date")
			return closeDB(db)
		},
	}
}

func loadConfig() (*config.Config, error) {
	// Loads env vars depending on environment
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log.SetLevel(parseLevel(cfg.LogLevel))
	return cfg, nil
}

func openDB(cfg *config.Config, migrate bool) (*gorm.DB, error) {
	db, err := sqlite.Init(sqlite.Options{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		return nil, err
	}

	if migrate {
		if err := sqlite.Migrate(db); err != nil {
			_ = closeDB(db)
			return nil, err
		}
	}
	return db, nil
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseLevel(level string) log.Lvl {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return log.DEBUG
	case "WARN":
		return log.WARN
	case "ERROR":
		return log.ERROR
	case "OFF":
		return log.OFF
	}
	return log.INFO
}
