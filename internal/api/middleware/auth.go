package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/authz"
	"github.com/linskybing/csdesk/pkg/response"
	"github.com/linskybing/csdesk/pkg/utils"
)

// Mode selects how a guard rejects a request: API callers get JSON errors,
// page views are redirected.
type Mode int

const (
	API Mode = iota
	View
)

// Auth handles session, profile and permission checks.
type Auth struct {
	svc      *application.Services
	enforcer *authz.Enforcer
}

func NewAuth(svc *application.Services, enforcer *authz.Enforcer) *Auth {
	return &Auth{svc: svc, enforcer: enforcer}
}

// LoginRedirect is where an unauthenticated view is sent.
func LoginRedirect(from string) string {
	if from == "" || from == "/login" {
		return "/login"
	}
	return "/login?redirectedFrom=" + url.QueryEscape(from)
}

// RequireSession resolves the session token. A missing, invalid or revoked
// token, or a session store failure, rejects the request.
func (a *Auth) RequireSession(mode Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		sess, err := a.svc.Auth.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if mode == View {
				ClearSessionCookie(c)
				c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL.RequestURI()))
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
			return
		}

		c.Set(utils.SessionKey, sess)
		c.Set(utils.TokenKey, token)
		c.Next()
	}
}

// LoadProfile attaches the caller's profile to the request. Views sign the
// session out when no active profile exists.
func (a *Auth) LoadProfile(mode Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := utils.GetSessionFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
			return
		}

		profile, err := a.svc.Profile.LoadProfile(sess.UserID)
		if err == nil && !profile.IsActive {
			err = application.ErrInactiveUser
		}
		if err != nil {
			if mode == View {
				_ = a.svc.Auth.Logout(c.Request.Context(), c.GetString(utils.TokenKey), 0, application.RequestMeta{})
				ClearSessionCookie(c)
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{Error: err.Error()})
			return
		}

		c.Set(utils.ProfileKey, profile)
		c.Next()
	}
}

// RequirePermission checks the loaded profile's role against the policy.
func (a *Auth) RequirePermission(obj, act string, mode Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := utils.GetRoleFromContext(c)
		if role == "" || !a.enforcer.Allowed(string(role), obj, act) {
			if mode == View {
				c.Data(http.StatusForbidden, "text/plain; charset=utf-8", []byte("Forbidden"))
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{Error: "Permission denied"})
			return
		}
		c.Next()
	}
}

// Admin restricts a route to profiles allowed to manage users.
func (a *Auth) Admin(mode Mode) gin.HandlerFunc {
	return a.RequirePermission(authz.ResUsers, authz.ActWrite, mode)
}
