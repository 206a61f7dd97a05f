package main

import (
	"time"

	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/config"
	"github.com/linskybing/csdesk/internal/config/db"
	"github.com/linskybing/csdesk/internal/maintenance"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/spf13/cobra"
)

func newPurgeAuditCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "purge-audit",
		Short: "Delete audit log entries older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			retention := config.AuditRetention
			if cmd.Flags().Changed("retention-days") {
				retention = time.Duration(days) * 24 * time.Hour
			}
			p := &maintenance.AuditPurge{
				Audit:     application.NewAuditService(repository.NewRepositories(db.DB)),
				Retention: retention,
			}
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().IntVar(&days, "retention-days", 0, "Override AUDIT_RETENTION_DAYS (0 keeps everything)")
	return cmd
}
