package repository

import (
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"gorm.io/gorm"
)

type TicketRepo interface {
	Create(t *ticket.Ticket) error
	FindAll() ([]ticket.Ticket, error)
	FindByID(id uint) (ticket.Ticket, error)
	FindAssignedTo(agentID uint, limit int) ([]ticket.Ticket, error)
	CountByStatus() (ticket.StatusCounts, error)
	Exists(id uint) (bool, error)
	Update(t *ticket.Ticket) error
	WithTx(tx *gorm.DB) TicketRepo
}

type DBTicketRepo struct {
	db *gorm.DB
}

func NewTicketRepo(db *gorm.DB) *DBTicketRepo {
	return &DBTicketRepo{db: db}
}

func (r *DBTicketRepo) Create(t *ticket.Ticket) error {
	return r.db.Create(t).Error
}

// FindAll returns every ticket, newest first, with the assignee preloaded.
func (r *DBTicketRepo) FindAll() ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	err := r.db.Preload("AssignedAgent").Order("created_at desc").Order("id desc").Find(&tickets).Error
	return tickets, err
}

func (r *DBTicketRepo) FindByID(id uint) (ticket.Ticket, error) {
	var t ticket.Ticket
	err := r.db.Preload("AssignedAgent").First(&t, id).Error
	return t, err
}

func (r *DBTicketRepo) FindAssignedTo(agentID uint, limit int) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	q := r.db.Where("assigned_agent_id = ?", agentID).Order("created_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&tickets).Error
	return tickets, err
}

func (r *DBTicketRepo) CountByStatus() (ticket.StatusCounts, error) {
	var rows []struct {
		Status ticket.Status
		Count  int64
	}
	var counts ticket.StatusCounts
	err := r.db.Model(&ticket.Ticket{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return counts, err
	}
	for _, row := range rows {
		switch row.Status {
		case ticket.StatusOpen:
			counts.Open = row.Count
		case ticket.StatusInProgress:
			counts.InProgress = row.Count
		case ticket.StatusResolved:
			counts.Resolved = row.Count
		}
	}
	return counts, nil
}

func (r *DBTicketRepo) Exists(id uint) (bool, error) {
	var n int64
	err := r.db.Model(&ticket.Ticket{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *DBTicketRepo) Update(t *ticket.Ticket) error {
	return r.db.Omit("AssignedAgent").Save(t).Error
}

func (r *DBTicketRepo) WithTx(tx *gorm.DB) TicketRepo {
	if tx == nil {
		return r
	}
	return &DBTicketRepo{db: tx}
}
