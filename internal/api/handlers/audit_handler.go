package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/pkg/response"
	"github.com/linskybing/csdesk/pkg/utils"
)

type AuditHandler struct {
	svc *application.AuditService
}

func NewAuditHandler(svc *application.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// GetAuditLogs godoc
// @Summary      Query audit logs
// @Description  Audit entries filtered by user, action and time range, newest first. Non-admins only see their own entries.
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        user_id     query     uint     false  "User ID"
// @Param        action      query     string   false  "Action, e.g. login"
// @Param        start_time  query     string   false  "RFC3339 lower bound"
// @Param        end_time    query     string   false  "RFC3339 upper bound"
// @Param        limit       query     int      false  "Max records (default 100, max 500)"
// @Param        offset      query     int      false  "Offset"
// @Success      200 {array}   audit.AuditLog
// @Failure      400 {object}  response.ErrorResponse "Invalid query parameters"
// @Router       /api/audit/logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	var params repository.AuditQueryParams

	if uid, err := utils.ParseQueryUintParam(c, "user_id"); err != nil {
		if !errors.Is(err, utils.ErrEmptyParameter) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid user_id"})
			return
		}
	} else {
		params.UserID = &uid
	}

	if act := c.Query("action"); act != "" {
		params.Action = &act
	}

	if start := c.Query("start_time"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid start_time"})
			return
		}
		params.StartTime = &t
	}

	if end := c.Query("end_time"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid end_time"})
			return
		}
		params.EndTime = &t
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	params.Limit = limit
	params.Offset = offset

	profile, _ := utils.GetProfileFromContext(c)
	logs, err := h.svc.QueryAuditLogs(profile, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
