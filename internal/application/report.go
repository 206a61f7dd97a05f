package application

import (
	"log/slog"
	"time"

	"github.com/linskybing/csdesk/internal/config"
	"github.com/linskybing/csdesk/internal/domain/report"
	"github.com/linskybing/csdesk/internal/repository"
)

type ReportService struct {
	Repos *repository.Repos
	now   func() time.Time
}

func NewReportService(repos *repository.Repos) *ReportService {
	return &ReportService{Repos: repos, now: time.Now}
}

// Generate aggregates the full ticket set in process on every call.
func (s *ReportService) Generate() (report.Report, error) {
	tickets, err := s.Repos.Ticket.FindAll()
	if err != nil {
		slog.Error("report ticket query failed", "error", err)
		return report.Report{}, ErrReportUnavailable
	}
	agents, err := s.Repos.User.ListByRoles(config.AgentRoles)
	if err != nil {
		slog.Error("report agent query failed", "error", err)
		return report.Report{}, ErrReportUnavailable
	}
	return report.Build(tickets, agents, s.now().UTC()), nil
}
