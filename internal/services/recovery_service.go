package services

import (
	"context"
	"fmt"

	"github.com/isdelr/messenger-auth/internal/auth"
	"github.com/isdelr/messenger-auth/internal/common"
	"github.com/isdelr/messenger-auth/internal/models"
	"github.com/isdelr/messenger-auth/internal/store"
	"github.com/rs/zerolog/log"
)

// ResetInput carries the second stage of secret-question recovery.
type ResetInput struct {
	Email        string
	SecretAnswer string
	NewPassword  string
}

// RecoveryServiceProvider defines the interface for secret-question recovery.
type RecoveryServiceProvider interface {
	GetSecretQuestion(ctx context.Context, email string) (models.SecretQuestion, error)
	ResetPassword(ctx context.Context, in ResetInput) error
}

// RecoveryService implements the two unauthenticated recovery steps. The
// steps are independent: ResetPassword does not require a prior
// GetSecretQuestion, and neither call is throttled.
type RecoveryService struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	events EventServiceProvider
}

// NewRecoveryService creates a new RecoveryService.
func NewRecoveryService(users store.UserStore, hasher auth.PasswordHasher, events EventServiceProvider) *RecoveryService {
	return &RecoveryService{users: users, hasher: hasher, events: events}
}

// GetSecretQuestion returns the question chosen at registration. It reveals
// whether the account exists.
func (s *RecoveryService) GetSecretQuestion(ctx context.Context, email string) (models.SecretQuestion, error) {
	if email == "" {
		return "", fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.SecretQuestion, nil
}

// ResetPassword replaces the password when the answer matches the stored one
// exactly. A wrong answer leaves the stored hash untouched.
func (s *RecoveryService) ResetPassword(ctx context.Context, in ResetInput) error {
	if in.Email == "" || in.SecretAnswer == "" || in.NewPassword == "" {
		return fmt.Errorf("%w: email, secret answer and new password are required", common.ErrorValidation)
	}
	if err := auth.CheckPasswordLength(in.NewPassword); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return err
	}

	if user.SecretAnswer != in.SecretAnswer {
		log.Warn().Str("email", in.Email).Msg("Secret answer mismatch")
		recordEvent(ctx, s.events, models.EventPasswordResetDenied, models.EventLevelWarn,
			fmt.Sprintf("Wrong secret answer for '%s'.", user.Email), &user.ID)
		return fmt.Errorf("%w: invalid secret answer", common.ErrorUnauthorized)
	}

	hashedPassword, err := s.hasher.Hash(in.NewPassword, auth.HashCost)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.Email, hashedPassword); err != nil {
		return err
	}

	recordEvent(ctx, s.events, models.EventPasswordReset, models.EventLevelInfo,
		fmt.Sprintf("Password reset for '%s'.", user.Email), &user.ID)
	return nil
}
