package auth

import (
	"context"
)

// Profile is the normalized identity returned by an OAuth provider.
type Profile struct {
	// ProviderID is the provider's stable account identifier.
	ProviderID string
	Email      string
	Nickname   string
	AvatarURL  string
}

// ProviderAdapter bridges a concrete OAuth provider into the login flow.
// Adapters wrap the provider's oauth2 endpoints and profile API so the
// service never sees provider-specific payloads.
type ProviderAdapter interface {
	// Name identifies the provider ("kakao").
	Name() string
	// AuthCodeURL builds the provider consent URL carrying the CSRF state.
	AuthCodeURL(state string) string
	// ResolveProfile exchanges the callback code and loads the account
	// profile. The account must only be created after this succeeds.
	ResolveProfile(ctx context.Context, code string) (Profile, error)
}

// StateStore persists one-time CSRF state values between the redirect to the
// provider and the callback. Consume must atomically fetch and invalidate so
// a state value never authorizes two callbacks.
type StateStore interface {
	Save(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) error
}
