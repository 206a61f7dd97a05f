package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/linskybing/csdesk/internal/auth"
	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/domain/identity"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/pkg/utils"
)

type LoginResult struct {
	Token   string
	Session identity.Session
	Profile user.User
}

type AuthService struct {
	Repos    *repository.Repos
	Auth     *auth.Service
	Profiles *ProfileService
}

func NewAuthService(repos *repository.Repos, authSvc *auth.Service, profiles *ProfileService) *AuthService {
	return &AuthService{
		Repos:    repos,
		Auth:     authSvc,
		Profiles: profiles,
	}
}

// Login signs the identity in and loads its profile. A session whose profile
// is missing or inactive is closed again before returning.
func (s *AuthService) Login(ctx context.Context, input user.LoginInput, meta RequestMeta) (LoginResult, error) {
	token, sess, err := s.Auth.SignIn(ctx, input.Email, input.Password)
	if err != nil {
		return LoginResult{}, err
	}

	profile, err := s.Profiles.LoadProfile(sess.UserID)
	if err == nil && !profile.IsActive {
		err = ErrInactiveUser
	}
	if err != nil {
		if signOutErr := s.Auth.SignOut(ctx, token); signOutErr != nil {
			slog.Warn("failed to close session after rejected login", "error", signOutErr)
		}
		return LoginResult{}, err
	}

	utils.LogAuditBestEffort(s.Repos.Audit, utils.AuditEntry{
		UserID:    profile.ID,
		Action:    audit.ActionLogin,
		Details:   "User logged in successfully",
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})

	return LoginResult{Token: token, Session: sess, Profile: profile}, nil
}

// Logout revokes the session. actorID of 0 skips the audit entry.
func (s *AuthService) Logout(ctx context.Context, token string, actorID uint, meta RequestMeta) error {
	if err := s.Auth.SignOut(ctx, token); err != nil {
		return err
	}
	if actorID != 0 {
		utils.LogAuditBestEffort(s.Repos.Audit, utils.AuditEntry{
			UserID:    actorID,
			Action:    audit.ActionLogout,
			Details:   "User logged out",
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		})
	}
	return nil
}

func (s *AuthService) ResolveSession(ctx context.Context, token string) (identity.Session, error) {
	sess, err := s.Auth.GetSession(ctx, token)
	if err != nil {
		if !errors.Is(err, auth.ErrNoSession) {
			slog.Error("session resolution failed", "error", err)
		}
		return identity.Session{}, ErrNoSession
	}
	return sess, nil
}
