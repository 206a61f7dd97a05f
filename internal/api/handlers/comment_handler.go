package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/pkg/response"
	"github.com/linskybing/csdesk/pkg/utils"
)

type CommentHandler struct {
	svc *application.CommentService
}

func NewCommentHandler(svc *application.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// ListComments godoc
// @Summary List a ticket's comments
// @Tags comments
// @Security BearerAuth
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {array} application.RenderedComment
// @Failure 404 {object} response.ErrorResponse "ticket not found"
// @Router /api/tickets/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ticket id"})
		return
	}
	comments, err := h.svc.ListComments(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AddComment godoc
// @Summary Comment on a ticket
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param input body ticket.CreateCommentDTO true "Comment"
// @Success 201 {object} ticket.Comment
// @Failure 400 {object} response.ErrorResponse "comment cannot be empty"
// @Failure 404 {object} response.ErrorResponse "ticket not found"
// @Router /api/tickets/{id}/comments [post]
func (h *CommentHandler) AddComment(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ticket id"})
		return
	}
	var input ticket.CreateCommentDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: validationMessage(err)})
		return
	}
	sess, err := utils.GetSessionFromContext(c)
	if err != nil {
		writeError(c, application.ErrNoSession)
		return
	}

	comment, err := h.svc.AddComment(sess, id, input, requestMeta(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
