package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/isdelr/messenger-auth/internal/auth"
	"github.com/isdelr/messenger-auth/internal/common"
	"github.com/isdelr/messenger-auth/internal/models"
	"github.com/isdelr/messenger-auth/internal/store"
	"github.com/rs/zerolog/log"
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	Email          string
	Name           string
	Password       string
	SecretQuestion models.SecretQuestion
	SecretAnswer   string
}

// Registration is the outcome of a successful Register: the created user and
// the session opened for it.
type Registration struct {
	User    models.User
	Session auth.Session
}

// CredentialServiceProvider defines the interface for registration and login.
type CredentialServiceProvider interface {
	Register(ctx context.Context, in RegisterInput) (Registration, error)
	Login(ctx context.Context, email, password string) (auth.Session, error)
	CurrentUser(ctx context.Context, userID string) (models.User, error)
}

// CredentialService orchestrates registration and password login.
type CredentialService struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	authn  auth.Authenticator
	events EventServiceProvider
}

// NewCredentialService creates a new CredentialService.
func NewCredentialService(users store.UserStore, hasher auth.PasswordHasher, authn auth.Authenticator, events EventServiceProvider) *CredentialService {
	return &CredentialService{users: users, hasher: hasher, authn: authn, events: events}
}

// Register creates a user and signs them in with the same credentials.
// Missing fields yield common.ErrorValidation, a taken email
// common.ErrorConflict. Session is empty when the sign-in failed.
func (s *CredentialService) Register(ctx context.Context, in RegisterInput) (Registration, error) {
	if in.Email == "" || in.Name == "" || in.Password == "" || in.SecretQuestion == "" || in.SecretAnswer == "" {
		return Registration{}, fmt.Errorf("%w: email, name, password, secret question and answer are required", common.ErrorValidation)
	}
	if !in.SecretQuestion.Valid() {
		return Registration{}, fmt.Errorf("%w: unknown secret question %q", common.ErrorValidation, in.SecretQuestion)
	}
	if err := auth.CheckPasswordLength(in.Password); err != nil {
		return Registration{}, err
	}

	hashedPassword, err := s.hasher.Hash(in.Password, auth.HashCost)
	if err != nil {
		return Registration{}, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user, err := s.users.Create(ctx, models.User{
		ID:             uuid.New().String(),
		Email:          in.Email,
		Name:           in.Name,
		HashedPassword: hashedPassword,
		SecretQuestion: in.SecretQuestion,
		SecretAnswer:   in.SecretAnswer,
	})
	if err != nil {
		return Registration{}, err
	}
	recordEvent(ctx, s.events, models.EventUserRegister, models.EventLevelInfo, fmt.Sprintf("User '%s' registered.", user.Email), &user.ID)

	// The account exists from here on; a failed sign-in leaves the caller
	// with the user and no session.
	session, err := s.authn.SignIn(ctx, auth.Credentials{Email: in.Email, Password: in.Password})
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to sign in after registration")
		return Registration{User: user.Sanitized()}, nil
	}
	return Registration{User: user.Sanitized(), Session: session}, nil
}

// Login delegates to the Authenticator. The error carries no detail about
// which field was wrong.
func (s *CredentialService) Login(ctx context.Context, email, password string) (auth.Session, error) {
	session, err := s.authn.SignIn(ctx, auth.Credentials{Email: email, Password: password})
	if err != nil {
		if common.KindOf(err) == common.KindAuthorization {
			recordEvent(ctx, s.events, models.EventUserLoginFailed, models.EventLevelWarn, fmt.Sprintf("Failed login for '%s'.", email), nil)
		}
		return auth.Session{}, err
	}
	return session, nil
}

// CurrentUser returns the signed-in user identified by a session's user ID.
func (s *CredentialService) CurrentUser(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	return user.Sanitized(), nil
}
