package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/csdesk/internal/domain/identity"
	"github.com/linskybing/csdesk/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailRegistered    = errors.New("user already registered")
	ErrNoSession          = errors.New("no active session")
)

// Publisher receives auth state changes.
type Publisher interface {
	Publish(ev identity.StateChange)
}

type Service struct {
	identities repository.IdentityRepo
	sessions   SessionStore
	tokens     *TokenManager
	events     Publisher
	ttl        time.Duration
	now        func() time.Time
}

func NewService(identities repository.IdentityRepo, sessions SessionStore, tokens *TokenManager, events Publisher, ttl time.Duration) *Service {
	return &Service{
		identities: identities,
		sessions:   sessions,
		tokens:     tokens,
		events:     events,
		ttl:        ttl,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) emailRegistered(repo repository.IdentityRepo, email string) (bool, error) {
	_, err := repo.GetByEmail(email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// SignUp registers a new identity with a hashed password. repo lets callers
// create it inside their own transaction; nil uses the service's repository.
func (s *Service) SignUp(repo repository.IdentityRepo, email, password string) (identity.Identity, error) {
	if repo == nil {
		repo = s.identities
	}
	email = normalizeEmail(email)
	taken, err := s.emailRegistered(repo, email)
	if err != nil {
		return identity.Identity{}, err
	}
	if taken {
		return identity.Identity{}, ErrEmailRegistered
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return identity.Identity{}, err
	}
	ident := identity.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := repo.Create(&ident); err != nil {
		return identity.Identity{}, err
	}
	return ident, nil
}

// SignIn checks the password and opens a new session.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, identity.Session, error) {
	ident, err := s.identities.GetByEmail(normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("identity lookup failed", "error", err)
		}
		return "", identity.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)); err != nil {
		return "", identity.Session{}, ErrInvalidCredentials
	}

	now := s.now()
	sess := identity.Session{
		ID:        uuid.NewString(),
		UserID:    ident.ID,
		Email:     ident.Email,
		ExpiresAt: now.Add(s.ttl),
	}
	token, err := s.tokens.Generate(sess.ID, sess.UserID, sess.Email, now, sess.ExpiresAt)
	if err != nil {
		return "", identity.Session{}, err
	}
	if err := s.sessions.Save(ctx, sess, s.ttl); err != nil {
		return "", identity.Session{}, err
	}

	s.publish(identity.EventSignedIn, sess.UserID)
	return token, sess, nil
}

// GetSession resolves a token to its live session. Any failure, including a
// store outage, is reported as ErrNoSession.
func (s *Service) GetSession(ctx context.Context, token string) (identity.Session, error) {
	if token == "" {
		return identity.Session{}, ErrNoSession
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return identity.Session{}, ErrNoSession
	}
	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			slog.Error("session lookup failed", "error", err)
		}
		return identity.Session{}, ErrNoSession
	}
	if sess.UserID != claims.UserID {
		return identity.Session{}, ErrNoSession
	}
	return sess, nil
}

// SignOut revokes the session behind token. Signing out an unknown or
// expired session is not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return err
	}
	s.publish(identity.EventSignedOut, claims.UserID)
	return nil
}

func (s *Service) publish(event, userID string) {
	if s.events == nil {
		return
	}
	s.events.Publish(identity.StateChange{Event: event, UserID: userID, At: s.now()})
}
