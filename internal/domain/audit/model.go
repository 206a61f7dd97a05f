package audit

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionLogin        = "login"
	ActionLogout       = "logout"
	ActionCreateUser   = "create_user"
	ActionUpdateUser   = "update_user"
	ActionCreateTicket = "create_ticket"
	ActionUpdateStatus = "update_ticket_status"
	ActionAssignTicket = "assign_ticket"
	ActionAddComment   = "add_comment"
	ActionUpload       = "upload_attachment"
)

type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	Action    string         `gorm:"size:50;index" json:"action"`
	Details   string         `gorm:"type:text" json:"details"`
	Metadata  datatypes.JSON `json:"metadata,omitempty" swaggertype:"object"`
	IPAddress string         `gorm:"size:64" json:"ip_address,omitempty"`
	UserAgent string         `gorm:"size:255" json:"user_agent,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
