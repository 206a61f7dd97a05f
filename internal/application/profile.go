package application

import (
	"errors"
	"log/slog"

	"github.com/linskybing/csdesk/internal/config"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/internal/repository"
	"gorm.io/gorm"
)

type ProfileService struct {
	Repos *repository.Repos
}

func NewProfileService(repos *repository.Repos) *ProfileService {
	return &ProfileService{Repos: repos}
}

// LoadProfile returns the single profile attached to authUserID. A missing
// row and a failed query both surface as ErrProfileNotFound.
func (s *ProfileService) LoadProfile(authUserID string) (user.User, error) {
	if authUserID == "" {
		return user.User{}, ErrProfileNotFound
	}
	u, err := s.Repos.User.GetUserByAuthID(authUserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("profile query failed", "error", err, "auth_user_id", authUserID)
		}
		return user.User{}, ErrProfileNotFound
	}
	return u, nil
}

// ListAgents returns profiles that can be assigned tickets.
func (s *ProfileService) ListAgents() ([]user.User, error) {
	users, err := s.Repos.User.ListByRoles(config.AgentRoles)
	if err != nil {
		return nil, err
	}
	active := users[:0]
	for _, u := range users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	return active, nil
}
