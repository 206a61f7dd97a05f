package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/pkg/response"
	"github.com/linskybing/csdesk/pkg/utils"
)

type TicketHandler struct {
	svc       *application.TicketService
	dashboard *application.DashboardService
}

func NewTicketHandler(svc *application.TicketService, dashboard *application.DashboardService) *TicketHandler {
	return &TicketHandler{svc: svc, dashboard: dashboard}
}

// ListTickets godoc
// @Summary List all tickets
// @Description Every ticket, newest first, with the assignee name ("Unassigned" when none).
// @Tags tickets
// @Security BearerAuth
// @Produce json
// @Success 200 {array} ticket.TicketListItem
// @Failure 500 {object} response.ErrorResponse "failed to load tickets"
// @Router /api/tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	items, err := h.svc.ListTickets()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetTicket godoc
// @Summary Get a ticket
// @Tags tickets
// @Security BearerAuth
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} ticket.Ticket
// @Failure 400 {object} response.ErrorResponse "Invalid ticket id"
// @Failure 404 {object} response.ErrorResponse "ticket not found"
// @Router /api/tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ticket id"})
		return
	}
	t, err := h.svc.GetTicket(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// CreateTicket godoc
// @Summary Create a ticket
// @Tags tickets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body ticket.CreateTicketDTO true "Ticket"
// @Success 201 {object} ticket.Ticket
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Router /api/tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var input ticket.CreateTicketDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: validationMessage(err)})
		return
	}
	actor, _ := utils.GetProfileFromContext(c)

	t, err := h.svc.CreateTicket(actor, input, requestMeta(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateStatus godoc
// @Summary Change a ticket's status
// @Tags tickets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param input body ticket.UpdateStatusDTO true "New status"
// @Success 200 {object} ticket.Ticket
// @Failure 400 {object} response.ErrorResponse "invalid ticket status"
// @Failure 404 {object} response.ErrorResponse "ticket not found"
// @Router /api/tickets/{id}/status [put]
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ticket id"})
		return
	}
	var input ticket.UpdateStatusDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: validationMessage(err)})
		return
	}
	actor, _ := utils.GetProfileFromContext(c)

	t, err := h.svc.UpdateStatus(actor, id, input.Status, requestMeta(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// AssignTicket godoc
// @Summary Assign or unassign a ticket
// @Tags tickets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param input body ticket.AssignDTO true "Agent (null to unassign)"
// @Success 200 {object} ticket.Ticket
// @Failure 400 {object} response.ErrorResponse "assignee must be an active agent or manager"
// @Failure 404 {object} response.ErrorResponse "ticket not found"
// @Router /api/tickets/{id}/assign [put]
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ticket id"})
		return
	}
	var input ticket.AssignDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: validationMessage(err)})
		return
	}
	actor, _ := utils.GetProfileFromContext(c)

	t, err := h.svc.AssignTicket(actor, id, input.AgentID, requestMeta(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListAssigned godoc
// @Summary My assigned tickets
// @Description The five most recent tickets assigned to the caller.
// @Tags tickets
// @Security BearerAuth
// @Produce json
// @Success 200 {array} ticket.Ticket
// @Router /api/tickets/assigned [get]
func (h *TicketHandler) ListAssigned(c *gin.Context) {
	profile, err := utils.GetProfileFromContext(c)
	if err != nil {
		writeError(c, application.ErrProfileNotFound)
		return
	}
	tickets, err := h.svc.ListAssignedTo(profile.ID, application.AssignedTasksLimit)
	if err != nil {
		writeError(c, err)
		return
	}
	if tickets == nil {
		tickets = []ticket.Ticket{}
	}
	c.JSON(http.StatusOK, tickets)
}

// Dashboard godoc
// @Summary Dashboard summary
// @Description Status counts, the caller's assigned tasks and which role panels to show.
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} application.DashboardSummary
// @Router /api/dashboard [get]
func (h *TicketHandler) Dashboard(c *gin.Context) {
	profile, err := utils.GetProfileFromContext(c)
	if err != nil {
		writeError(c, application.ErrProfileNotFound)
		return
	}
	sum, err := h.dashboard.Summary(profile)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
