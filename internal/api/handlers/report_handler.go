package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/application"
)

type ReportHandler struct {
	svc *application.ReportService
}

func NewReportHandler(svc *application.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// GetReport godoc
// @Summary Ticket and agent performance report
// @Description Daily new/resolved counts, per-agent resolved counts with mean resolution hours, and the unresolved total.
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} report.Report
// @Failure 403 {object} response.ErrorResponse "Permission denied"
// @Failure 500 {object} response.ErrorResponse "failed to generate report"
// @Router /api/reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	r, err := h.svc.Generate()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
