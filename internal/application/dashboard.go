package application

import (
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

type DashboardSummary struct {
	Counts           ticket.StatusCounts `json:"counts"`
	AssignedTasks    []ticket.Ticket     `json:"assigned_tasks"`
	ShowManagerPanel bool                `json:"show_manager_panel"`
	ShowAdminPanel   bool                `json:"show_admin_panel"`
}

type DashboardService struct {
	Tickets *TicketService
}

func NewDashboardService(tickets *TicketService) *DashboardService {
	return &DashboardService{Tickets: tickets}
}

// Summary loads the status cards and the viewer's most recent assignments.
func (s *DashboardService) Summary(profile user.User) (DashboardSummary, error) {
	out := DashboardSummary{
		ShowManagerPanel: profile.Role == user.RoleManager || profile.Role == user.RoleAdmin,
		ShowAdminPanel:   profile.Role == user.RoleAdmin,
	}

	var g errgroup.Group
	g.Go(func() error {
		counts, err := s.Tickets.CountByStatus()
		out.Counts = counts
		return err
	})
	g.Go(func() error {
		tasks, err := s.Tickets.ListAssignedTo(profile.ID, AssignedTasksLimit)
		out.AssignedTasks = tasks
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardSummary{}, err
	}
	if out.AssignedTasks == nil {
		out.AssignedTasks = []ticket.Ticket{}
	}
	return out, nil
}
