package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fieldservice/internal/models"
	"fieldservice/internal/repositories"
)

// AuthService is the injected identity-resolution collaborator: it
// turns a credential into an (actor, role) pair and nothing else. The
// core never inspects credentials anywhere else.
type AuthService interface {
	Resolve(ctx context.Context, email, password string) (*models.User, error)
}

type authService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Resolve(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, ErrForbidden
	}

	ph := strings.TrimSpace(user.PasswordHash)
	if ph == "" {
		return nil, ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ph), []byte(strings.TrimSpace(password))); err != nil {
		return nil, ErrForbidden
	}
	return user, nil
}
