package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Mega4Real/ednascollectionnew/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	admins repository.AdminRepository
	tokens *Manager
}

func NewService(admins repository.AdminRepository, tokens *Manager) *Service {
	return &Service{admins: admins, tokens: tokens}
}

// Login checks the admin's password against its bcrypt hash and returns a
// signed token. A missing admin and a wrong password are indistinguishable
// to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if errors.Is(err, repository.ErrAdminNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.IssueToken(admin.ID, admin.Username)
}
