package application

import (
	"github.com/linskybing/csdesk/internal/auth"
	"github.com/linskybing/csdesk/internal/domain/nav"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/internal/storage"
	"github.com/linskybing/csdesk/pkg/markdown"
)

type Services struct {
	Auth       *AuthService
	Profile    *ProfileService
	Navigation *NavigationService
	Ticket     *TicketService
	Dashboard  *DashboardService
	Comment    *CommentService
	Attachment *AttachmentService
	Report     *ReportService
	Admin      *AdminService
	Audit      *AuditService
}

type Deps struct {
	Auth           *auth.Service
	Store          storage.ObjectStore
	Menu           []nav.MenuItem
	MaxUploadBytes int64
}

func New(repos *repository.Repos, deps Deps) *Services {
	profiles := NewProfileService(repos)
	tickets := NewTicketService(repos)
	return &Services{
		Auth:       NewAuthService(repos, deps.Auth, profiles),
		Profile:    profiles,
		Navigation: NewNavigationService(deps.Menu),
		Ticket:     tickets,
		Dashboard:  NewDashboardService(tickets),
		Comment:    NewCommentService(repos, profiles, markdown.NewRenderer()),
		Attachment: NewAttachmentService(repos, deps.Store, deps.MaxUploadBytes),
		Report:     NewReportService(repos),
		Admin:      NewAdminService(repos, deps.Auth),
		Audit:      NewAuditService(repos),
	}
}
