package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/api/handlers"
	"github.com/linskybing/csdesk/internal/api/middleware"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/authz"
	"github.com/linskybing/csdesk/internal/realtime"
	"github.com/linskybing/csdesk/internal/web"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/linskybing/csdesk/docs"
)

// Options carries everything the router needs from main.
type Options struct {
	Services     *application.Services
	Enforcer     *authz.Enforcer
	Hub          *realtime.Hub
	Pages        *web.Pages
	Metrics      *middleware.Metrics
	LoginLimiter *middleware.RateLimiter
	Origins      []string
	Logger       *slog.Logger
	// Ping reports backing store health for /healthz. Nil means always healthy.
	Ping func(ctx context.Context) error
}

func RegisterRoutes(r *gin.Engine, o Options) *handlers.Handlers {
	h := handlers.New(o.Services, o.Hub, o.Pages, o.Metrics, o.Origins)
	authMiddleware := middleware.NewAuth(o.Services, o.Enforcer)

	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(o.Origins))
	if o.Metrics != nil {
		r.Use(o.Metrics.Middleware())
		r.GET("/metrics", o.Metrics.Handler())
	}

	loginGuard := func(c *gin.Context) { c.Next() }
	if o.LoginLimiter != nil {
		loginGuard = o.LoginLimiter.Middleware()
	}

	r.GET("/healthz", func(c *gin.Context) {
		if o.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := o.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerViews(r, h.View, authMiddleware, loginGuard)

	// --- JSON API ---
	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", loginGuard, h.Auth.Login)
			authGroup.POST("/logout", h.Auth.Logout)
			authGroup.GET("/session", authMiddleware.RequireSession(middleware.API), h.Auth.Session)
		}

		protected := api.Group("")
		protected.Use(authMiddleware.RequireSession(middleware.API), authMiddleware.LoadProfile(middleware.API))
		{
			protected.GET("/me", h.Auth.Me)
			protected.GET("/navigation", h.Navigation.GetNavigation)

			readTickets := authMiddleware.RequirePermission(authz.ResTickets, authz.ActRead, middleware.API)
			writeTickets := authMiddleware.RequirePermission(authz.ResTickets, authz.ActWrite, middleware.API)
			protected.GET("/dashboard", readTickets, h.Ticket.Dashboard)

			tickets := protected.Group("/tickets")
			{
				tickets.GET("", readTickets, h.Ticket.ListTickets)
				tickets.POST("", writeTickets, h.Ticket.CreateTicket)
				tickets.GET("/assigned", readTickets, h.Ticket.ListAssigned)
				tickets.GET("/:id", readTickets, h.Ticket.GetTicket)
				tickets.PUT("/:id/status", writeTickets, h.Ticket.UpdateStatus)
				tickets.PUT("/:id/assign", writeTickets, h.Ticket.AssignTicket)

				tickets.GET("/:id/comments", authMiddleware.RequirePermission(authz.ResComments, authz.ActRead, middleware.API), h.Comment.ListComments)
				tickets.POST("/:id/comments", authMiddleware.RequirePermission(authz.ResComments, authz.ActWrite, middleware.API), h.Comment.AddComment)
				tickets.GET("/:id/attachments", authMiddleware.RequirePermission(authz.ResAttachments, authz.ActRead, middleware.API), h.Attachment.ListAttachments)
				tickets.POST("/:id/attachments", authMiddleware.RequirePermission(authz.ResAttachments, authz.ActWrite, middleware.API), h.Attachment.UploadAttachment)
			}

			protected.GET("/reports", authMiddleware.RequirePermission(authz.ResReports, authz.ActRead, middleware.API), h.Report.GetReport)

			admin := protected.Group("/admin")
			admin.Use(authMiddleware.Admin(middleware.API))
			{
				admin.GET("/users", h.User.ListUsers)
				admin.POST("/create-user", h.User.CreateUser)
				admin.PUT("/users/:id", h.User.UpdateUser)
			}

			protected.GET("/audit/logs", authMiddleware.RequirePermission(authz.ResAudit, authz.ActRead, middleware.API), h.Audit.GetAuditLogs)
		}
	}

	r.GET("/ws/auth", authMiddleware.RequireSession(middleware.API), h.AuthEvents.Stream)

	return h
}

func registerViews(r *gin.Engine, v *handlers.ViewHandler, authMiddleware *middleware.Auth, loginGuard gin.HandlerFunc) {
	r.GET("/", v.Root)
	r.GET("/login", v.LoginPage)
	r.POST("/login", loginGuard, v.LoginSubmit)
	r.POST("/logout", v.Logout)

	pages := r.Group("")
	pages.Use(authMiddleware.RequireSession(middleware.View), authMiddleware.LoadProfile(middleware.View))
	{
		readTickets := authMiddleware.RequirePermission(authz.ResTickets, authz.ActRead, middleware.View)
		pages.GET("/dashboard", readTickets, v.Dashboard)
		pages.GET("/dashboard/tickets", readTickets, v.Tickets)
		pages.GET("/dashboard/tickets/:id", readTickets, v.TicketDetail)
		pages.POST("/dashboard/tickets/:id/comments", authMiddleware.RequirePermission(authz.ResComments, authz.ActWrite, middleware.View), v.AddComment)
		pages.POST("/dashboard/tickets/:id/attachments", authMiddleware.RequirePermission(authz.ResAttachments, authz.ActWrite, middleware.View), v.UploadAttachment)
		pages.GET("/reports", authMiddleware.RequirePermission(authz.ResReports, authz.ActRead, middleware.View), v.Reports)
		pages.GET("/audit", authMiddleware.RequirePermission(authz.ResAudit, authz.ActRead, middleware.View), v.AuditLogs)
		pages.GET("/settings", v.Settings)

		admin := pages.Group("/admin")
		admin.Use(authMiddleware.Admin(middleware.View))
		{
			admin.GET("/dashboard", v.AdminDashboard)
			admin.GET("/add-users", v.AddUsersPage)
			admin.POST("/add-users", v.AddUsersSubmit)
		}
	}
}
