package main

import (
	"log/slog"

	"github.com/linskybing/csdesk/internal/config/db"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			if err := db.Migrate(db.DB); err != nil {
				return err
			}
			slog.Info("database migrated")
			return nil
		},
	}
}
