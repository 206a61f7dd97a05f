package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/pkg/response"
	"github.com/linskybing/csdesk/pkg/utils"
)

type AttachmentHandler struct {
	svc *application.AttachmentService
}

func NewAttachmentHandler(svc *application.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// ListAttachments godoc
// @Summary List a ticket's attachments
// @Description Public URLs are resolved against the object store for each file.
// @Tags attachments
// @Security BearerAuth
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {array} ticket.Attachment
// @Failure 404 {object} response.ErrorResponse "ticket not found"
// @Failure 502 {object} response.ErrorResponse "failed to access attachment storage"
// @Router /api/tickets/{id}/attachments [get]
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ticket id"})
		return
	}
	atts, err := h.svc.ListAttachments(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, atts)
}

// UploadAttachment godoc
// @Summary Upload a file to a ticket
// @Tags attachments
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Ticket ID"
// @Param file formData file true "File"
// @Success 201 {object} ticket.Attachment
// @Failure 400 {object} response.ErrorResponse "file is required"
// @Failure 413 {object} response.ErrorResponse "file exceeds the maximum allowed size"
// @Router /api/tickets/{id}/attachments [post]
func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ticket id"})
		return
	}
	att, err := uploadFromForm(c, h.svc, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, att)
}

// multipartOverhead leaves room for form boundaries and headers.
const multipartOverhead = 1 << 20

// uploadFromForm reads the "file" field and hands it to the service.
func uploadFromForm(c *gin.Context, svc *application.AttachmentService, ticketID uint) (ticket.Attachment, error) {
	if svc.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, svc.MaxBytes+multipartOverhead)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ticket.Attachment{}, application.ErrFileTooLarge
		}
		return ticket.Attachment{}, application.ErrEmptyFile
	}
	f, err := fh.Open()
	if err != nil {
		return ticket.Attachment{}, err
	}
	defer f.Close()

	actor, _ := utils.GetProfileFromContext(c)
	return svc.UploadAttachment(c.Request.Context(), actor, ticketID, application.UploadInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, requestMeta(c))
}
