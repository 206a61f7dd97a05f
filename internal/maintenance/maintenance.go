package maintenance

import (
	"log/slog"
	"time"

	"github.com/linskybing/csdesk/internal/application"
)

// AuditPurge removes audit log entries older than Retention. It runs once per
// invocation of the purge-audit command; there is no in-process schedule.
type AuditPurge struct {
	Audit     *application.AuditService
	Retention time.Duration
	now       func() time.Time
}

// Run returns the number of deleted entries. A zero Retention keeps audit
// logs forever.
func (p *AuditPurge) Run() (int64, error) {
	if p.Audit == nil || p.Retention <= 0 {
		slog.Info("audit retention disabled, nothing to purge")
		return 0, nil
	}
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	n, err := p.Audit.PurgeBefore(now(), p.Retention)
	if err != nil {
		slog.Error("audit log cleanup failed", "error", err)
		return 0, err
	}
	slog.Info("audit log cleanup completed", "deleted", n, "retention", p.Retention)
	return n, nil
}
