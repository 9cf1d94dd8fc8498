package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kmsblog/blogapi/pkg/logger"
)

// Service implements password-based account operations.
type Service struct {
	cfg     Config
	storage Storage
	logger  *slog.Logger
	now     func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the password authentication service.
func NewService(cfg Config, storage Storage, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:     cfg,
		storage: storage,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account with the given credentials.
//
// The lookup is only a fast path; the unique index on email is the
// authoritative duplicate signal, so concurrent registrations racing past
// the lookup still resolve to exactly one account.
func (s *Service) Register(ctx context.Context, email, nickname, password string) (*User, error) {
	email = normalizeEmail(email)
	nickname = strings.TrimSpace(nickname)

	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if nickname == "" {
		return nil, fmt.Errorf("%w: nickname is required", ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	if _, err := s.storage.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		// Lost the race: surface the duplicate as a conflict, not a 500.
		if errors.Is(err, ErrEmailAlreadyExists) || errors.Is(err, ErrNicknameAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		logger.UserID(user.ID),
		logger.Component("auth"),
	)
	return user, nil
}

// Login verifies the credentials and returns the account.
// Any failure reads as ErrInvalidCredentials to prevent user enumeration.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user.PasswordHash == "" {
		// OAuth-only accounts have no password to check.
		return nil, ErrInvalidCredentials
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Profile loads the account behind the given session claims.
func (s *Service) Profile(ctx context.Context, claims Claims) (*User, error) {
	if claims.Subject != "" {
		return s.storage.GetUserByID(ctx, claims.Subject)
	}
	if claims.Email != "" {
		return s.storage.GetUserByEmail(ctx, claims.Email)
	}
	return nil, ErrUserNotFound
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
