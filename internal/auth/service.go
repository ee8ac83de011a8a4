package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sceneframes/backend/internal/logging"
	"github.com/sceneframes/backend/internal/models"
	"github.com/sceneframes/backend/internal/repositories"
)

const minPasswordLength = 8

var (
	// ErrInvalidCredentials covers unknown accounts and password mismatches
	// alike, so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrEmailTaken indicates an account already exists for the email.
	ErrEmailTaken = errors.New("auth: account already exists")
	// ErrInvalidEmail indicates the email address failed to parse.
	ErrInvalidEmail = errors.New("auth: invalid email address")
	// ErrWeakPassword indicates the password is shorter than the minimum.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
	// ErrThrottled indicates too many recent attempts for the account.
	ErrThrottled = errors.New("auth: too many attempts")
)

// UserStore captures the persistence operations required by the auth service.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// TokenIssuer mints access tokens from claim data.
type TokenIssuer interface {
	Issue(claims map[string]any) (string, error)
}

// Service implements account registration and login on top of the credential
// service, the token issuer and a user store.
type Service struct {
	Users       UserStore
	Credentials *Credentials
	Tokens      TokenIssuer
	Throttle    *Throttle
	NowFunc     func() time.Time
}

// Register validates the signup payload, stores the account with a hashed
// password and returns the created user together with a fresh access token.
func (s *Service) Register(ctx context.Context, name, email, password string) (models.User, string, error) {
	logger := logging.FromContext(ctx)

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, "", ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return models.User{}, "", ErrWeakPassword
	}

	if _, err := s.Users.FindByEmail(ctx, email); err == nil {
		logger.Warn("signup existing account", "email", email)
		return models.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, "", fmt.Errorf("verify existing accounts: %w", err)
	}

	hashed, err := s.Credentials.Hash(password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("secure password: %w", err)
	}

	now := s.now()
	user, err := s.Users.Create(ctx, models.User{
		Name:      name,
		Email:     email,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			logger.Warn("signup conflict", "email", email)
			return models.User{}, "", ErrEmailTaken
		}
		return models.User{}, "", fmt.Errorf("create account: %w", err)
	}

	accessToken, err := s.issueFor(user)
	if err != nil {
		return models.User{}, "", err
	}

	logger.Info("user registered", "userId", user.ID.Hex())
	return user, accessToken, nil
}

// Login verifies the password for the account and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, string, error) {
	logger := logging.FromContext(ctx)

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, "", ErrInvalidCredentials
	}

	if s.Throttle != nil && !s.Throttle.Allow(email) {
		logger.Warn("login throttled", "email", email)
		return models.User{}, "", ErrThrottled
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("login unknown account", "email", email)
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", fmt.Errorf("find account: %w", err)
	}

	if !s.Credentials.Verify(password, user.Password) {
		logger.Warn("login password mismatch", "userId", user.ID.Hex())
		return models.User{}, "", ErrInvalidCredentials
	}

	accessToken, err := s.issueFor(user)
	if err != nil {
		return models.User{}, "", err
	}

	return user, accessToken, nil
}

func (s *Service) issueFor(user models.User) (string, error) {
	accessToken, err := s.Tokens.Issue(map[string]any{
		"id":    user.ID.Hex(),
		"email": user.Email,
	})
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
