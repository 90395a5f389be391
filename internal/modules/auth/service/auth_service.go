package service

import (
	"context"
	"fmt"
	"strings"

	"aquaview/internal/modules/auth/domain"
	authout "aquaview/internal/modules/auth/port/out"
	"aquaview/internal/platform/clock"
	apperrors "aquaview/internal/platform/errors"
)

type AuthService struct {
	clock clock.Clock
	store authout.SessionStore
	login authout.LoginGateway
}

func NewAuthService(clock clock.Clock, store authout.SessionStore, login authout.LoginGateway) *AuthService {
	return &AuthService{clock: clock, store: store, login: login}
}

// Login exchanges credentials for a session and persists the full triple.
// The store is only written on success; a failed login leaves any previous
// session untouched.
func (s *AuthService) Login(ctx context.Context, username, password, mcCode string) (domain.Session, string, error) {
	username = strings.TrimSpace(username)
	mcCode = strings.TrimSpace(mcCode)
	if username == "" || password == "" || mcCode == "" {
		return domain.Session{}, "", fmt.Errorf("%w: username, password and municipality are required", apperrors.ErrInvalidInput)
	}
	result, err := s.login.Login(ctx, username, password, mcCode)
	if err != nil {
		return domain.Session{}, "", err
	}
	session := domain.Session{
		Token:   result.Token,
		MCCode:  result.MCCode,
		MCName:  result.MCName,
		SavedAt: s.clock.Now(),
	}
	if !session.Active() {
		return domain.Session{}, "", fmt.Errorf("login response missing token or mc code")
	}
	if err := session.Validate(); err != nil {
		return domain.Session{}, "", err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return domain.Session{}, "", err
	}
	return session, result.Message, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *AuthService) Current(ctx context.Context) (domain.Session, error) {
	session, err := s.store.Load(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if !session.Active() {
		return domain.Session{}, apperrors.ErrNoSession
	}
	return session, nil
}

func (s *AuthService) Municipals(ctx context.Context) ([]domain.Municipal, error) {
	return s.login.MunicipalList(ctx)
}
