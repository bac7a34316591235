package auth

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mineralhub/mineralhub/internal/db/models"
)

// Service provides account registration, login and token resolution.
type Service struct {
	local  *LocalProvider
	secret string
	ttl    time.Duration
}

// NewService creates a new auth service signing tokens with secret.
func NewService(db *gorm.DB, secret string, ttl time.Duration) *Service {
	return &Service{
		local:  NewLocalProvider(db),
		secret: secret,
		ttl:    ttl,
	}
}

// Register creates a user with the default role and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	user, err := s.local.CreateUser(ctx, name, email, password, models.RoleUser)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login checks credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.local.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// UserFromToken resolves a bearer token to an active user.
func (s *Service) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return nil, err
	}

	user, err := s.local.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	return user, nil
}

// CreateUser creates a user with an explicit role. Used by seeding.
func (s *Service) CreateUser(ctx context.Context, name, email, password, roleName string) (*models.User, error) {
	return s.local.CreateUser(ctx, name, email, password, roleName)
}

func (s *Service) issue(user *models.User) (string, error) {
	return GenerateToken(s.secret, user.ID, user.Email, user.Role.Name, s.ttl)
}
