package main

import (
	"database/sql"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janisto/kyc-compliance/internal/platform/config"
	"github.com/janisto/kyc-compliance/internal/platform/database"
	applog "github.com/janisto/kyc-compliance/internal/platform/logging"
)

var errNoDSN = errors.New("migrate: KYC_DATABASE_DSN is not set")

func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded schema migrations",
	}
	cmd.AddCommand(migrateUpCommand(cfg))
	cmd.AddCommand(migrateDownCommand(cfg))
	return cmd
}

func migrateUpCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, cfg, func(db *sql.DB) error {
				n, err := database.MigrateUp(db)
				if err != nil {
					return err
				}
				applog.LogInfo(cmd.Context(), "applied migrations", zap.Int("count", n))
				return nil
			})
		},
	}
}

func migrateDownCommand(cfg *config.Config) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, cfg, func(db *sql.DB) error {
				n, err := database.MigrateDown(db, steps)
				if err != nil {
					return err
				}
				applog.LogInfo(cmd.Context(), "rolled back migrations", zap.Int("count", n))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back (0 rolls back all)")
	return cmd
}

func withDB(cmd *cobra.Command, cfg *config.Config, fn func(*sql.DB) error) error {
	if cfg.Database.DSN == "" {
		return errNoDSN
	}
	db, err := database.Open(cmd.Context(), cfg.Database.DSN, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return fn(db)
}
