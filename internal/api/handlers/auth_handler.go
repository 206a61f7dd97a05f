package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/api/middleware"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/pkg/response"
	"github.com/linskybing/csdesk/pkg/utils"
)

type AuthHandler struct {
	svc     *application.AuthService
	metrics *middleware.Metrics
}

func NewAuthHandler(svc *application.AuthService, metrics *middleware.Metrics) *AuthHandler {
	return &AuthHandler{svc: svc, metrics: metrics}
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, application.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, application.ErrProfileNotFound), errors.Is(err, application.ErrInactiveUser):
		return "no_profile"
	default:
		return "error"
	}
}

// Login godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param input body user.LoginInput true "Credentials"
// @Success 200 {object} response.TokenResponse
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 401 {object} response.ErrorResponse "Invalid login credentials"
// @Failure 403 {object} response.ErrorResponse "Profile not found or inactive"
// @Failure 429 {object} response.ErrorResponse "Too many attempts"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input user.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: validationMessage(err)})
		return
	}

	res, err := h.svc.Login(c.Request.Context(), input, requestMeta(c))
	h.metrics.ObserveLogin(loginResult(err))
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetSessionCookie(c, res.Token, res.Session.ExpiresAt)
	c.JSON(http.StatusOK, response.TokenResponse{
		Token:     res.Token,
		UserID:    res.Profile.ID,
		Name:      res.Profile.Name,
		Role:      string(res.Profile.Role),
		ExpiresAt: res.Session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout godoc
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} response.MessageResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.ExtractToken(c)
	var actorID uint
	if token != "" {
		if sess, err := h.svc.ResolveSession(c.Request.Context(), token); err == nil {
			if profile, err := h.svc.Profiles.LoadProfile(sess.UserID); err == nil {
				actorID = profile.ID
			}
		}
		if err := h.svc.Logout(c.Request.Context(), token, actorID, requestMeta(c)); err != nil {
			writeError(c, err)
			return
		}
	}
	middleware.ClearSessionCookie(c)
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Logged out successfully"})
}

// Session godoc
// @Summary Current session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} identity.Session
// @Failure 401 {object} response.ErrorResponse
// @Router /api/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	sess, err := utils.GetSessionFromContext(c)
	if err != nil {
		writeError(c, application.ErrNoSession)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// Me godoc
// @Summary Current profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} user.User
// @Failure 403 {object} response.ErrorResponse "profile not found"
// @Router /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := utils.GetProfileFromContext(c)
	if err != nil {
		writeError(c, application.ErrProfileNotFound)
		return
	}
	c.JSON(http.StatusOK, profile)
}
