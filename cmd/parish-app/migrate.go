package main

import (
	"fmt"

	"parish-app-go/internal/config"
	"parish-app-go/internal/db"
	"parish-app-go/pkg/logger"

	"github.com/spf13/cobra"
)

func newMigrateCommand(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(log)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			conn, err := db.NewPostgres(cfg.DB, log)
			if err != nil {
				return err
			}
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			applied, err := db.Migrate(conn, log)
			if err != nil {
				return err
			}
			log.Info("db: migrations complete", "applied", len(applied))
			return nil
		},
	}
}
