package application

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/linskybing/csdesk/internal/config"
	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/pkg/utils"
	"gorm.io/gorm"
)

const AssignedTasksLimit = 5

type TicketService struct {
	Repos *repository.Repos
}

func NewTicketService(repos *repository.Repos) *TicketService {
	return &TicketService{Repos: repos}
}

// ListTickets returns every ticket, newest first, with the assignee name
// resolved. There is no paging or filtering.
func (s *TicketService) ListTickets() ([]ticket.TicketListItem, error) {
	tickets, err := s.Repos.Ticket.FindAll()
	if err != nil {
		slog.Error("failed to list tickets", "error", err)
		return nil, ErrTicketsUnavailable
	}
	items := make([]ticket.TicketListItem, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, ticket.ToListItem(t))
	}
	return items, nil
}

func (s *TicketService) GetTicket(id uint) (ticket.Ticket, error) {
	t, err := s.Repos.Ticket.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ticket.Ticket{}, ErrTicketNotFound
		}
		return ticket.Ticket{}, err
	}
	return t, nil
}

func (s *TicketService) CreateTicket(actor user.User, input ticket.CreateTicketDTO, meta RequestMeta) (ticket.Ticket, error) {
	priority := input.Priority
	if priority == "" {
		priority = ticket.PriorityMedium
	}
	if !validPriority(priority) {
		return ticket.Ticket{}, ErrInvalidPriority
	}

	t := ticket.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Status:      ticket.StatusOpen,
		Priority:    priority,
		Category:    input.Category,
	}

	err := s.Repos.ExecTx(func(r *repository.Repos) error {
		if input.AssignedAgentID != nil {
			agent, err := s.assignableAgent(r, *input.AssignedAgentID)
			if err != nil {
				return err
			}
			t.AssignedAgentID = &agent.ID
			t.AssignedAgent = &agent
		}
		if err := r.Ticket.Create(&t); err != nil {
			return err
		}
		return utils.LogAudit(r.Audit, utils.AuditEntry{
			UserID:    actor.ID,
			Action:    audit.ActionCreateTicket,
			Details:   fmt.Sprintf("Created ticket #%d", t.ID),
			Metadata:  map[string]any{"ticket_id": t.ID, "title": t.Title, "priority": t.Priority},
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		})
	})
	if err != nil {
		return ticket.Ticket{}, err
	}
	return t, nil
}

func (s *TicketService) UpdateStatus(actor user.User, id uint, status ticket.Status, meta RequestMeta) (ticket.Ticket, error) {
	if !status.Valid() {
		return ticket.Ticket{}, ErrInvalidStatus
	}
	t, err := s.GetTicket(id)
	if err != nil {
		return ticket.Ticket{}, err
	}
	old := t.Status
	if old == status {
		return t, nil
	}
	t.Status = status

	err = s.Repos.ExecTx(func(r *repository.Repos) error {
		if err := r.Ticket.Update(&t); err != nil {
			return err
		}
		return utils.LogAudit(r.Audit, utils.AuditEntry{
			UserID:    actor.ID,
			Action:    audit.ActionUpdateStatus,
			Details:   fmt.Sprintf("Ticket #%d status changed from %s to %s", t.ID, old, status),
			Metadata:  map[string]any{"ticket_id": t.ID, "from": old, "to": status},
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		})
	})
	if err != nil {
		return ticket.Ticket{}, err
	}
	return t, nil
}

// AssignTicket sets or clears the assignee. A nil agentID unassigns.
func (s *TicketService) AssignTicket(actor user.User, id uint, agentID *uint, meta RequestMeta) (ticket.Ticket, error) {
	t, err := s.GetTicket(id)
	if err != nil {
		return ticket.Ticket{}, err
	}

	err = s.Repos.ExecTx(func(r *repository.Repos) error {
		details := fmt.Sprintf("Ticket #%d unassigned", t.ID)
		if agentID == nil {
			t.AssignedAgentID = nil
			t.AssignedAgent = nil
		} else {
			agent, err := s.assignableAgent(r, *agentID)
			if err != nil {
				return err
			}
			t.AssignedAgentID = &agent.ID
			t.AssignedAgent = &agent
			details = fmt.Sprintf("Ticket #%d assigned to %s", t.ID, agent.Name)
		}
		if err := r.Ticket.Update(&t); err != nil {
			return err
		}
		return utils.LogAudit(r.Audit, utils.AuditEntry{
			UserID:    actor.ID,
			Action:    audit.ActionAssignTicket,
			Details:   details,
			Metadata:  map[string]any{"ticket_id": t.ID, "agent_id": agentID},
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		})
	})
	if err != nil {
		return ticket.Ticket{}, err
	}
	return t, nil
}

func (s *TicketService) ListAssignedTo(profileID uint, limit int) ([]ticket.Ticket, error) {
	if limit <= 0 {
		limit = AssignedTasksLimit
	}
	return s.Repos.Ticket.FindAssignedTo(profileID, limit)
}

func (s *TicketService) CountByStatus() (ticket.StatusCounts, error) {
	return s.Repos.Ticket.CountByStatus()
}

func (s *TicketService) assignableAgent(r *repository.Repos, id uint) (user.User, error) {
	agent, err := r.User.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, ErrInvalidAgent
		}
		return user.User{}, err
	}
	if !agent.IsActive || !slices.Contains(config.AgentRoles, string(agent.Role)) {
		return user.User{}, ErrInvalidAgent
	}
	return agent, nil
}

func validPriority(p ticket.Priority) bool {
	switch p {
	case ticket.PriorityLow, ticket.PriorityMedium, ticket.PriorityHigh, ticket.PriorityUrgent:
		return true
	}
	return false
}
