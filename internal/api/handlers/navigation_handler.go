package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/pkg/utils"
)

type NavigationHandler struct {
	svc *application.NavigationService
}

func NewNavigationHandler(svc *application.NavigationService) *NavigationHandler {
	return &NavigationHandler{svc: svc}
}

// GetNavigation godoc
// @Summary Sidebar menu for the caller's role
// @Tags navigation
// @Security BearerAuth
// @Produce json
// @Param path query string false "Current page path, marked active"
// @Success 200 {array} nav.MenuItem
// @Router /api/navigation [get]
func (h *NavigationHandler) GetNavigation(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Menu(utils.GetRoleFromContext(c), c.Query("path")))
}
