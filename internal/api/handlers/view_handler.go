package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/api/middleware"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/internal/web"
	"github.com/linskybing/csdesk/pkg/utils"
)

const defaultLanding = "/dashboard"

// ViewHandler serves the server-rendered pages.
type ViewHandler struct {
	svc     *application.Services
	pages   *web.Pages
	metrics *middleware.Metrics
}

func NewViewHandler(svc *application.Services, pages *web.Pages, metrics *middleware.Metrics) *ViewHandler {
	return &ViewHandler{svc: svc, pages: pages, metrics: metrics}
}

type loginForm struct {
	Email          string
	RedirectedFrom string
}

type ticketPage struct {
	Ticket           ticket.Ticket
	Comments         []application.RenderedComment
	Attachments      []ticket.Attachment
	AttachmentsError string
}

// safeRedirect only allows local absolute paths.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return defaultLanding
	}
	if strings.HasPrefix(target, "/login") {
		return defaultLanding
	}
	return target
}

// viewMessage hides internal failures from page visitors.
func viewMessage(err error) string {
	if isKnown(err) {
		return err.Error()
	}
	slog.Error("page request failed", "error", err)
	return "Something went wrong. Please try again."
}

func (h *ViewHandler) page(c *gin.Context, title string) web.PageData {
	profile, _ := utils.GetProfileFromContext(c)
	return web.PageData{
		Title:   title,
		Profile: &profile,
		Menu:    h.svc.Navigation.Menu(profile.Role, c.Request.URL.Path),
		Error:   c.Query("error"),
		Notice:  c.Query("notice"),
	}
}

func (h *ViewHandler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, defaultLanding)
}

// LoginPage shows the sign-in form, or skips it when a session is already live.
func (h *ViewHandler) LoginPage(c *gin.Context) {
	from := c.Query("redirectedFrom")
	if token := middleware.ExtractToken(c); token != "" {
		if _, err := h.svc.Auth.ResolveSession(c.Request.Context(), token); err == nil {
			c.Redirect(http.StatusFound, safeRedirect(from))
			return
		}
	}
	h.pages.Render(c, http.StatusOK, "login", web.PageData{
		Title: "Sign in",
		Data:  loginForm{RedirectedFrom: from},
	})
}

func (h *ViewHandler) LoginSubmit(c *gin.Context) {
	from := c.PostForm("redirectedFrom")
	var input user.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		h.pages.Render(c, http.StatusBadRequest, "login", web.PageData{
			Title: "Sign in",
			Error: validationMessage(err),
			Data:  loginForm{Email: input.Email, RedirectedFrom: from},
		})
		return
	}

	res, err := h.svc.Auth.Login(c.Request.Context(), input, requestMeta(c))
	h.metrics.ObserveLogin(loginResult(err))
	if err != nil {
		h.pages.Render(c, StatusFor(err), "login", web.PageData{
			Title: "Sign in",
			Error: viewMessage(err),
			Data:  loginForm{Email: input.Email, RedirectedFrom: from},
		})
		return
	}

	middleware.SetSessionCookie(c, res.Token, res.Session.ExpiresAt)
	c.Redirect(http.StatusFound, safeRedirect(from))
}

func (h *ViewHandler) Logout(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token != "" {
		var actorID uint
		if sess, err := h.svc.Auth.ResolveSession(c.Request.Context(), token); err == nil {
			if profile, err := h.svc.Profile.LoadProfile(sess.UserID); err == nil {
				actorID = profile.ID
			}
		}
		if err := h.svc.Auth.Logout(c.Request.Context(), token, actorID, requestMeta(c)); err != nil {
			slog.Warn("logout failed", "error", err)
		}
	}
	middleware.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}

func (h *ViewHandler) Dashboard(c *gin.Context) {
	data := h.page(c, "Dashboard")
	summary, err := h.svc.Dashboard.Summary(*data.Profile)
	if err != nil {
		data.Error = viewMessage(err)
	}
	data.Data = summary
	h.pages.Render(c, http.StatusOK, "dashboard", data)
}

func (h *ViewHandler) Tickets(c *gin.Context) {
	data := h.page(c, "Tickets")
	items, err := h.svc.Ticket.ListTickets()
	if err != nil {
		data.Error = "Error loading tickets"
		h.pages.Render(c, http.StatusOK, "tickets", data)
		return
	}
	data.Data = items
	h.pages.Render(c, http.StatusOK, "tickets", data)
}

func (h *ViewHandler) TicketDetail(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.String(http.StatusNotFound, "Ticket not found")
		return
	}
	t, err := h.svc.Ticket.GetTicket(id)
	if err != nil {
		if errors.Is(err, application.ErrTicketNotFound) {
			c.String(http.StatusNotFound, "Ticket not found")
			return
		}
		c.String(http.StatusInternalServerError, viewMessage(err))
		return
	}

	data := h.page(c, "Ticket #"+strconv.FormatUint(uint64(t.ID), 10))
	tp := ticketPage{Ticket: t}

	if tp.Comments, err = h.svc.Comment.ListComments(id); err != nil {
		data.Error = viewMessage(err)
	}
	if tp.Attachments, err = h.svc.Attachment.ListAttachments(c.Request.Context(), id); err != nil {
		tp.AttachmentsError = viewMessage(err)
	}
	data.Data = tp
	h.pages.Render(c, http.StatusOK, "ticket_detail", data)
}

func ticketURL(id uint, key, msg string) string {
	u := "/dashboard/tickets/" + strconv.FormatUint(uint64(id), 10)
	if msg == "" {
		return u
	}
	return u + "?" + key + "=" + url.QueryEscape(msg)
}

func (h *ViewHandler) AddComment(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.String(http.StatusNotFound, "Ticket not found")
		return
	}
	var input ticket.CreateCommentDTO
	if err := c.ShouldBind(&input); err != nil {
		c.Redirect(http.StatusSeeOther, ticketURL(id, "error", application.ErrEmptyComment.Error()))
		return
	}
	sess, err := utils.GetSessionFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, middleware.LoginRedirect(c.Request.URL.Path))
		return
	}
	if _, err := h.svc.Comment.AddComment(sess, id, input, requestMeta(c)); err != nil {
		c.Redirect(http.StatusSeeOther, ticketURL(id, "error", viewMessage(err)))
		return
	}
	c.Redirect(http.StatusSeeOther, ticketURL(id, "", ""))
}

func (h *ViewHandler) UploadAttachment(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.String(http.StatusNotFound, "Ticket not found")
		return
	}
	if _, err := uploadFromForm(c, h.svc.Attachment, id); err != nil {
		c.Redirect(http.StatusSeeOther, ticketURL(id, "error", viewMessage(err)))
		return
	}
	c.Redirect(http.StatusSeeOther, ticketURL(id, "notice", "File uploaded"))
}

func (h *ViewHandler) Reports(c *gin.Context) {
	data := h.page(c, "Reports")
	rep, err := h.svc.Report.Generate()
	if err != nil {
		data.Error = viewMessage(err)
	}
	data.Data = rep
	h.pages.Render(c, http.StatusOK, "reports", data)
}

func (h *ViewHandler) AddUsersPage(c *gin.Context) {
	data := h.page(c, "Add Users")
	data.Data = user.CreateUserInput{Role: user.RoleAgent}
	h.pages.Render(c, http.StatusOK, "add_users", data)
}

func (h *ViewHandler) AddUsersSubmit(c *gin.Context) {
	data := h.page(c, "Add Users")
	var input user.CreateUserInput
	if err := c.ShouldBind(&input); err != nil {
		input.Password = ""
		data.Error = validationMessage(err)
		data.Data = input
		h.pages.Render(c, http.StatusBadRequest, "add_users", data)
		return
	}

	created, err := h.svc.Admin.CreateUser(*data.Profile, input, requestMeta(c))
	if err != nil {
		input.Password = ""
		data.Error = viewMessage(err)
		data.Data = input
		h.pages.Render(c, StatusFor(err), "add_users", data)
		return
	}

	data.Notice = "User " + created.Email + " created successfully"
	data.Data = user.CreateUserInput{Role: user.RoleAgent}
	h.pages.Render(c, http.StatusCreated, "add_users", data)
}

// auditPageSize bounds the audit view to the most recent entries.
const auditPageSize = 100

func (h *ViewHandler) AdminDashboard(c *gin.Context) {
	data := h.page(c, "Admin Dashboard")
	users, err := h.svc.Admin.ListUsers()
	if err != nil {
		data.Error = viewMessage(err)
	}
	data.Data = users
	h.pages.Render(c, http.StatusOK, "admin_dashboard", data)
}

func (h *ViewHandler) AuditLogs(c *gin.Context) {
	data := h.page(c, "Audit Logs")
	logs, err := h.svc.Audit.QueryAuditLogs(*data.Profile, repository.AuditQueryParams{Limit: auditPageSize})
	if err != nil {
		data.Error = viewMessage(err)
	}
	data.Data = logs
	h.pages.Render(c, http.StatusOK, "audit", data)
}

func (h *ViewHandler) Settings(c *gin.Context) {
	h.pages.Render(c, http.StatusOK, "settings", h.page(c, "Settings"))
}
