package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/pkg/response"
)

var statusByError = []struct {
	err    error
	status int
}{
	{application.ErrInvalidCredentials, http.StatusUnauthorized},
	{application.ErrNoSession, http.StatusUnauthorized},
	{application.ErrProfileNotFound, http.StatusForbidden},
	{application.ErrInactiveUser, http.StatusForbidden},
	{application.ErrSelfModification, http.StatusForbidden},
	{application.ErrEmailTaken, http.StatusConflict},
	{application.ErrUserNotFound, http.StatusNotFound},
	{application.ErrTicketNotFound, http.StatusNotFound},
	{application.ErrInvalidStatus, http.StatusBadRequest},
	{application.ErrInvalidPriority, http.StatusBadRequest},
	{application.ErrInvalidAgent, http.StatusBadRequest},
	{application.ErrEmptyComment, http.StatusBadRequest},
	{application.ErrEmptyFile, http.StatusBadRequest},
	{application.ErrInvalidFileName, http.StatusBadRequest},
	{application.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{application.ErrStorageFailure, http.StatusBadGateway},
	{application.ErrTicketsUnavailable, http.StatusInternalServerError},
	{application.ErrReportUnavailable, http.StatusInternalServerError},
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError sends err as an ErrorResponse. Unknown errors are logged and
// replaced by a generic message.
func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError && !isKnown(err) {
		slog.Error("request failed", "error", err, "path", c.FullPath())
		msg = "Internal server error"
	}
	c.JSON(status, response.ErrorResponse{Error: msg})
}

func isKnown(err error) bool {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return true
		}
	}
	return false
}

var fieldLabels = map[string]string{
	"Name":            "name",
	"Email":           "email",
	"Password":        "password",
	"Role":            "role",
	"Title":           "title",
	"Priority":        "priority",
	"Category":        "category",
	"Status":          "status",
	"Comment":         "comment",
	"AssignedAgentID": "assigned agent",
}

// validationMessage turns binding errors into short messages for the UI.
func validationMessage(err error) string {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return "Invalid input"
	}

	msgs := make([]string, 0, len(verr))
	for _, fe := range verr {
		field := fe.StructField()
		lbl, ok := fieldLabels[field]
		if !ok {
			lbl = strings.ToLower(field)
		}

		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", lbl)
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters", lbl, fe.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", lbl, fe.Param())
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", lbl)
		case "oneof":
			msg = fmt.Sprintf("%s must be one of [%s]", lbl, fe.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", lbl)
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}

func requestMeta(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}
