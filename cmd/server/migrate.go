package main

import (
	"github.com/fekuna/omnipos-admin-service/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, appLogger, err := bootstrap()
			if err != nil {
				return err
			}
			defer appLogger.Sync()

			db, err := connectPostgres(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := migrations.Up(cmd.Context(), db, appLogger)
			if err != nil {
				return err
			}
			appLogger.Info("migrations complete", zap.Int("applied", n))
			return nil
		},
	}
}
