package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kmsblog/blogapi/pkg/logger"
)

// nicknameRetries bounds how many generated nicknames the callback tries
// before giving up on a pathological collision streak.
const nicknameRetries = 3

// OAuthService runs the provider login flow: consent redirect, CSRF state,
// callback exchange, and find-or-create of the local account.
type OAuthService struct {
	storage Storage
	adapter ProviderAdapter
	states  StateStore
	logger  *slog.Logger
	now     func() time.Time
}

// OAuthOption configures an OAuthService.
type OAuthOption func(*OAuthService)

// WithOAuthLogger sets the service logger.
func WithOAuthLogger(l *slog.Logger) OAuthOption {
	return func(s *OAuthService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOAuthClock overrides the time source, used by tests.
func WithOAuthClock(now func() time.Time) OAuthOption {
	return func(s *OAuthService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewOAuthService constructs the provider login service.
func NewOAuthService(storage Storage, adapter ProviderAdapter, states StateStore, opts ...OAuthOption) *OAuthService {
	s := &OAuthService{
		storage: storage,
		adapter: adapter,
		states:  states,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthURL generates the provider consent URL with a stored one-time state.
func (s *OAuthService) AuthURL(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	if err := s.states.Save(ctx, state); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}
	return s.adapter.AuthCodeURL(state), nil
}

// HandleCallback finishes the provider login. The state must match a stored
// one-time value, and the local account is only touched after the provider
// confirms the profile.
func (s *OAuthService) HandleCallback(ctx context.Context, code, state string) (*User, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	if err := s.states.Consume(ctx, state); err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("validate state: %w", err)
	}

	profile, err := s.adapter.ResolveProfile(ctx, code)
	if err != nil {
		return nil, err
	}
	if profile.ProviderID == "" {
		return nil, fmt.Errorf("%w: profile has no provider id", ErrProfileFetch)
	}

	user, err := s.storage.GetUserByKakaoID(ctx, profile.ProviderID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check provider link: %w", err)
	}

	return s.createFromProfile(ctx, profile)
}

// createFromProfile registers a first-time provider login as a local account.
// Generated nicknames carry a timestamp tail; a collision retries with a
// fresh tail rather than failing the login.
func (s *OAuthService) createFromProfile(ctx context.Context, profile Profile) (*User, error) {
	var lastErr error
	for range nicknameRetries {
		now := s.now().UTC()
		user := &User{
			Email:        strings.ToLower(strings.TrimSpace(profile.Email)),
			Nickname:     s.generatedNickname(profile.Nickname),
			KakaoID:      profile.ProviderID,
			ProfileImage: profile.AvatarURL,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err := s.storage.CreateUser(ctx, user)
		if err == nil {
			s.logger.InfoContext(ctx, "oauth user created",
				logger.UserID(user.ID),
				logger.Component("oauth"),
				slog.String("provider", s.adapter.Name()),
			)
			return user, nil
		}
		if errors.Is(err, ErrKakaoAlreadyLinked) {
			// A concurrent first login for the same account won the insert;
			// hand the loser the account it raced against.
			return s.storage.GetUserByKakaoID(ctx, profile.ProviderID)
		}
		if !errors.Is(err, ErrNicknameAlreadyExists) {
			return nil, fmt.Errorf("create oauth user: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("create oauth user: %w", lastErr)
}

func (s *OAuthService) generatedNickname(providerNickname string) string {
	base := strings.TrimSpace(providerNickname)
	if base == "" {
		base = "user"
	}
	tail := s.now().UnixMilli() % 100000
	return fmt.Sprintf("%s_%s_%05d", s.adapter.Name(), base, tail)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
