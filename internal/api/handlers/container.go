package handlers

import (
	"github.com/linskybing/csdesk/internal/api/middleware"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/realtime"
	"github.com/linskybing/csdesk/internal/web"
)

type Handlers struct {
	Auth       *AuthHandler
	Ticket     *TicketHandler
	Comment    *CommentHandler
	Attachment *AttachmentHandler
	Report     *ReportHandler
	Navigation *NavigationHandler
	Audit      *AuditHandler
	User       *UserHandler
	AuthEvents *AuthEventsHandler
	View       *ViewHandler
}

func New(svc *application.Services, hub *realtime.Hub, pages *web.Pages, metrics *middleware.Metrics, originPrefixes []string) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc.Auth, metrics),
		Ticket:     NewTicketHandler(svc.Ticket, svc.Dashboard),
		Comment:    NewCommentHandler(svc.Comment),
		Attachment: NewAttachmentHandler(svc.Attachment),
		Report:     NewReportHandler(svc.Report),
		Navigation: NewNavigationHandler(svc.Navigation),
		Audit:      NewAuditHandler(svc.Audit),
		User:       NewUserHandler(svc.Admin),
		AuthEvents: NewAuthEventsHandler(hub, originPrefixes),
		View:       NewViewHandler(svc, pages, metrics),
	}
}
