package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/linskybing/csdesk/internal/auth"
	"github.com/linskybing/csdesk/internal/domain/audit"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/pkg/utils"
	"gorm.io/gorm"
)

type AdminService struct {
	Repos *repository.Repos
	Auth  *auth.Service
}

func NewAdminService(repos *repository.Repos, authSvc *auth.Service) *AdminService {
	return &AdminService{Repos: repos, Auth: authSvc}
}

func (s *AdminService) ListUsers() ([]user.User, error) {
	return s.Repos.User.GetAllUsers()
}

// CreateUser registers an identity and its profile in one transaction.
func (s *AdminService) CreateUser(actor user.User, input user.CreateUserInput, meta RequestMeta) (user.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !input.Role.Valid() {
		return user.User{}, fmt.Errorf("invalid role %q", input.Role)
	}

	var created user.User
	err := s.Repos.ExecTx(func(r *repository.Repos) error {
		if _, err := r.User.GetUserByEmail(email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		ident, err := s.Auth.SignUp(r.Identity, email, input.Password)
		if errors.Is(err, auth.ErrEmailRegistered) {
			return ErrEmailTaken
		}
		if err != nil {
			return err
		}

		created = user.User{
			AuthUserID: ident.ID,
			Name:       strings.TrimSpace(input.Name),
			Email:      email,
			Role:       input.Role,
			IsActive:   true,
		}
		if err := r.User.SaveUser(&created); err != nil {
			return err
		}

		return utils.LogAudit(r.Audit, utils.AuditEntry{
			UserID:    actor.ID,
			Action:    audit.ActionCreateUser,
			Details:   fmt.Sprintf("Created user %s with role %s", email, input.Role),
			Metadata:  map[string]any{"user_id": created.ID, "email": email, "role": input.Role},
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		})
	})
	// Concurrent creates can both pass the lookups; the unique index decides.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return user.User{}, ErrEmailTaken
	}
	if err != nil {
		return user.User{}, err
	}
	return created, nil
}

// UpdateUser changes a profile's role or active flag. Profiles are never
// deleted, only deactivated.
func (s *AdminService) UpdateUser(actor user.User, id uint, input user.UpdateUserInput, meta RequestMeta) (user.User, error) {
	u, err := s.Repos.User.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, err
	}

	if u.ID == actor.ID {
		if (input.Role != nil && *input.Role != u.Role) || (input.IsActive != nil && !*input.IsActive) {
			return user.User{}, ErrSelfModification
		}
	}

	before := u
	if input.Role != nil {
		if !input.Role.Valid() {
			return user.User{}, fmt.Errorf("invalid role %q", *input.Role)
		}
		u.Role = *input.Role
	}
	if input.IsActive != nil {
		u.IsActive = *input.IsActive
	}

	err = s.Repos.ExecTx(func(r *repository.Repos) error {
		if err := r.User.SaveUser(&u); err != nil {
			return err
		}
		return utils.LogAudit(r.Audit, utils.AuditEntry{
			UserID:    actor.ID,
			Action:    audit.ActionUpdateUser,
			Details:   fmt.Sprintf("Updated user %s", u.Email),
			Metadata:  map[string]any{"user_id": u.ID, "before": map[string]any{"role": before.Role, "is_active": before.IsActive}, "after": map[string]any{"role": u.Role, "is_active": u.IsActive}},
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		})
	})
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}
