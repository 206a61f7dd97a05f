package application

import (
	"time"

	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/internal/repository"
)

const maxAuditPageSize = 500

type AuditService struct {
	Repos *repository.Repos
}

func NewAuditService(repos *repository.Repos) *AuditService {
	return &AuditService{
		Repos: repos,
	}
}

// QueryAuditLogs returns entries newest first. Admins see every entry; other
// viewers only their own, whatever user filter they asked for.
func (s *AuditService) QueryAuditLogs(viewer user.User, params repository.AuditQueryParams) ([]audit.AuditLog, error) {
	if viewer.Role != user.RoleAdmin {
		own := viewer.ID
		params.UserID = &own
	}
	if params.Limit <= 0 || params.Limit > maxAuditPageSize {
		params.Limit = maxAuditPageSize
	}
	return s.Repos.Audit.GetAuditLogs(params)
}

// PurgeBefore drops audit entries older than retention.
func (s *AuditService) PurgeBefore(now time.Time, retention time.Duration) (int64, error) {
	return s.Repos.Audit.DeleteOlderThan(now.Add(-retention))
}
