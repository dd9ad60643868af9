// Package accounts owns the operator account lifecycle: registration, login,
// password reset and profile edits.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/auth"
	"github.com/geocoder89/foodshelter/internal/domain/user"
	"github.com/geocoder89/foodshelter/internal/notifications"
	"github.com/geocoder89/foodshelter/internal/security"
)

type UserStore interface {
	Create(ctx context.Context, in user.NewUser) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	UpdateProfile(ctx context.Context, id int64, p user.Profile) (user.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type Service struct {
	users    UserStore
	tokens   *auth.Manager
	notifier notifications.Notifier
	log      *slog.Logger
}

func NewService(users UserStore, tokens *auth.Manager, notifier notifications.Notifier, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		log:      log,
	}
}

// NormalizeEmail lowercases and trims; emails are stored and looked up in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, email, password string) (user.User, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, user.NewUser{
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		Role:         user.DefaultRole,
	})
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

// Authenticate returns apperr.ErrInvalidCredentials for both unknown emails and wrong passwords.
func (s *Service) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			security.BurnCompare(password)
			return user.User{}, apperr.ErrInvalidCredentials
		}
		return user.User{}, err
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.User{}, apperr.ErrInvalidCredentials
	}

	return u, nil
}

// RequestPasswordReset mails a reset link built on linkBase (".../reset_password").
// Unknown addresses are logged and reported as success.
func (s *Service) RequestPasswordReset(ctx context.Context, email, linkBase string) error {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.log.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, expiresAt, err := s.tokens.GeneratePasswordResetToken(u.ID, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	err = s.notifier.SendPasswordReset(ctx, notifications.PasswordResetInput{
		Email:     u.Email,
		Name:      u.DisplayName(),
		ResetURL:  strings.TrimRight(linkBase, "/") + "/" + url.PathEscape(token),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return &apperr.ExternalServiceError{Service: "mail", Retryable: true, Err: err}
	}

	s.log.InfoContext(ctx, "password reset mailed", "user_id", u.ID)
	return nil
}

// CheckResetToken validates token without consuming it.
func (s *Service) CheckResetToken(ctx context.Context, token string) (user.User, error) {
	claims, err := s.tokens.VerifyPasswordResetToken(token)
	if err != nil {
		return user.User{}, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return user.User{}, apperr.ErrExpiredOrInvalidToken
		}
		return user.User{}, err
	}

	// a token issued before the last password change no longer counts
	if !s.tokens.MatchesPassword(claims, u.PasswordHash) {
		return user.User{}, apperr.ErrExpiredOrInvalidToken
	}

	return u, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	u, err := s.CheckResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "password reset", "user_id", u.ID)
	return nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (user.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile replaces every profile field; nil clears it.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, p user.Profile) (user.User, error) {
	return s.users.UpdateProfile(ctx, userID, p)
}
