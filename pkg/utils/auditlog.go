package utils

import (
	"encoding/json"
	"log/slog"

	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/repository"
	"gorm.io/datatypes"
)

type AuditEntry struct {
	UserID    uint
	Action    string
	Details   string
	Metadata  any
	IPAddress string
	UserAgent string
}

// LogAudit appends an audit row.
var LogAudit = func(repo repository.AuditRepo, e AuditEntry) error {
	log := &audit.AuditLog{
		UserID:    e.UserID,
		Action:    e.Action,
		Details:   e.Details,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
	}
	if e.Metadata != nil {
		data, err := json.Marshal(e.Metadata)
		if err != nil {
			slog.Warn("audit metadata marshal failed", "error", err, "action", e.Action)
		} else {
			log.Metadata = datatypes.JSON(data)
		}
	}
	return repo.CreateAuditLog(log)
}

// LogAuditBestEffort writes an audit row and only logs a failure.
func LogAuditBestEffort(repo repository.AuditRepo, e AuditEntry) {
	if err := LogAudit(repo, e); err != nil {
		slog.Error("error creating audit log", "error", err, "action", e.Action, "user_id", e.UserID)
	}
}
