package application

import (
	"errors"

	"github.com/linskybing/csdesk/internal/auth"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInactiveUser       = errors.New("user account is inactive")
	ErrInvalidCredentials = auth.ErrInvalidCredentials
	ErrNoSession          = auth.ErrNoSession
	ErrEmailTaken         = errors.New("A user with this email already exists. Please use a different email.")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfModification   = errors.New("cannot change your own role or deactivate yourself")

	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketsUnavailable = errors.New("failed to load tickets")
	ErrInvalidStatus      = errors.New("invalid ticket status")
	ErrInvalidPriority    = errors.New("invalid ticket priority")
	ErrInvalidAgent       = errors.New("assignee must be an active agent or manager")
	ErrEmptyComment       = errors.New("comment cannot be empty")

	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrInvalidFileName = errors.New("invalid file name")
	ErrStorageFailure  = errors.New("failed to access attachment storage")

	ErrReportUnavailable = errors.New("failed to generate report")
)

// RequestMeta carries caller details recorded in the audit log.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
