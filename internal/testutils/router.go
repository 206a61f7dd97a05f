package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/api/middleware"
	"github.com/linskybing/csdesk/internal/api/routes"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/auth"
	"github.com/linskybing/csdesk/internal/authz"
	"github.com/linskybing/csdesk/internal/config/db"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/internal/realtime"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// App is a fully wired service backed by the given database, an in-memory
// session store and an in-memory object store.
type App struct {
	Router   *gin.Engine
	DB       *gorm.DB
	Repos    *repository.Repos
	Services *application.Services
	Hub      *realtime.Hub
	Store    *MemoryStore
	Sessions *auth.MemorySessionStore
}

// OpenSQLite returns a private in-memory database for t.
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return gdb
}

// SetupRouter wires the service against a fresh sqlite database.
func SetupRouter(t *testing.T) *App {
	t.Helper()
	return NewApp(t, OpenSQLite(t))
}

func NewApp(t *testing.T, gdb *gorm.DB) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, db.Migrate(gdb))

	repos := repository.NewRepositories(gdb)
	hub := realtime.NewHub()
	t.Cleanup(hub.Close)
	sessions := auth.NewMemorySessionStore()
	authSvc := auth.NewService(repos.Identity, sessions, auth.NewTokenManager("test-secret", "csdesk-test"), hub, time.Hour)
	store := NewMemoryStore()
	services := application.New(repos, application.Deps{
		Auth:           authSvc,
		Store:          store,
		MaxUploadBytes: 1 << 20,
	})

	enforcer, err := authz.NewEnforcer()
	require.NoError(t, err)
	pages, err := web.Load()
	require.NoError(t, err)

	r := gin.New()
	routes.RegisterRoutes(r, routes.Options{
		Services:     services,
		Enforcer:     enforcer,
		Hub:          hub,
		Pages:        pages,
		Metrics:      middleware.NewMetrics(prometheus.NewRegistry()),
		LoginLimiter: middleware.NewRateLimiter(1000, 1000),
		Origins:      []string{"http://localhost:"},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &App{
		Router:   r,
		DB:       gdb,
		Repos:    repos,
		Services: services,
		Hub:      hub,
		Store:    store,
		Sessions: sessions,
	}
}

// CreateUser provisions an identity and an active profile.
func (a *App) CreateUser(t *testing.T, name, email, password string, role user.Role) user.User {
	t.Helper()
	u, err := a.Services.Admin.CreateUser(user.User{}, user.CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	}, application.RequestMeta{})
	require.NoError(t, err)
	return u
}

// Login signs in and returns the session token.
func (a *App) Login(t *testing.T, email, password string) string {
	t.Helper()
	res, err := a.Services.Auth.Login(context.Background(), user.LoginInput{Email: email, Password: password}, application.RequestMeta{})
	require.NoError(t, err)
	return res.Token
}

// Do sends a request through the router. A non-empty token is sent as a
// bearer header.
func (a *App) Do(method, path string, body io.Reader, token string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

// DoWithCookie is Do for page views, which authenticate with the session cookie.
func (a *App) DoWithCookie(method, path string, body io.Reader, token string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}
