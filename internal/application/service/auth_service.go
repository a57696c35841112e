package service

import (
	"context"
	"strings"

	"github.com/sangkips/trimtime-pos/internal/application/session"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
)

// AuthService handles operator login and logout at the register
type AuthService struct {
	staff    *StaffService
	sessions *session.Manager
}

// NewAuthService creates a new auth service
func NewAuthService(staff *StaffService, sessions *session.Manager) *AuthService {
	return &AuthService{
		staff:    staff,
		sessions: sessions,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username   string
	Password   string
	RememberMe bool
}

// Login checks the credentials against the staff collection and starts a session
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*session.Session, error) {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	staff, err := s.staff.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if staff == nil || !staff.CheckPassword(input.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	sess, err := s.sessions.Login(*staff, input.RememberMe)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Logout ends the current session
func (s *AuthService) Logout() error {
	return s.sessions.Logout()
}

// Current returns the live session
func (s *AuthService) Current() (*session.Session, error) {
	sess, ok := s.sessions.Current()
	if !ok {
		return nil, apperror.ErrNoSession
	}
	return &sess, nil
}
