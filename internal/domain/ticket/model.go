package ticket

import (
	"time"

	"github.com/linskybing/csdesk/internal/domain/user"
)

type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "InProgress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

type Ticket struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	Status          Status     `gorm:"size:20;not null;default:'Open';index" json:"status"`
	Priority        Priority   `gorm:"size:20;not null;default:'Medium'" json:"priority"`
	Category        string     `gorm:"size:50" json:"category"`
	AssignedAgentID *uint      `gorm:"index" json:"assigned_agent_id"`
	AssignedAgent   *user.User `gorm:"foreignKey:AssignedAgentID" json:"assigned_agent,omitempty"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// AssigneeName is what list views show in the "Assigned To" column.
func (t Ticket) AssigneeName() string {
	if t.AssignedAgent == nil || t.AssignedAgent.Name == "" {
		return "Unassigned"
	}
	return t.AssignedAgent.Name
}

// Comment is append-only. IsInternal marks staff notes that are not part of
// the customer-facing conversation.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TicketID   uint      `gorm:"index;not null" json:"ticket_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Author     user.User `gorm:"foreignKey:UserID" json:"author"`
	Comment    string    `gorm:"type:text;not null" json:"comment"`
	IsInternal bool      `gorm:"not null" json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// Attachment records an object stored under FileURL. PublicURL is derived on
// read and never persisted.
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketID  uint      `gorm:"index;not null" json:"ticket_id"`
	FileName  string    `gorm:"size:255;not null" json:"file_name"`
	FileURL   string    `gorm:"size:512;not null" json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
	PublicURL string    `gorm:"-" json:"public_url"`
}

func (Attachment) TableName() string {
	return "attachments"
}

type StatusCounts struct {
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
}
