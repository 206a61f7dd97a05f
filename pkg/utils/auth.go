package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/domain/identity"
	"github.com/linskybing/csdesk/internal/domain/user"
)

const (
	SessionKey = "session"
	ProfileKey = "profile"
	TokenKey   = "session_token"
)

var (
	ErrNoSessionInContext = errors.New("session not found in context")
	ErrNoProfileInContext = errors.New("profile not found in context")
)

func GetSessionFromContext(c *gin.Context) (identity.Session, error) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return identity.Session{}, ErrNoSessionInContext
	}
	sess, ok := v.(identity.Session)
	if !ok {
		return identity.Session{}, errors.New("invalid session type")
	}
	return sess, nil
}

// GetProfileFromContext returns the profile loaded for the current request.
// The role travels with the request rather than in any shared state.
func GetProfileFromContext(c *gin.Context) (user.User, error) {
	v, exists := c.Get(ProfileKey)
	if !exists {
		return user.User{}, ErrNoProfileInContext
	}
	u, ok := v.(user.User)
	if !ok {
		return user.User{}, errors.New("invalid profile type")
	}
	return u, nil
}

func GetRoleFromContext(c *gin.Context) user.Role {
	u, err := GetProfileFromContext(c)
	if err != nil {
		return ""
	}
	return u.Role
}
