package auth

import (
	"context"
	"net/http"

	"github.com/kmsblog/blogapi/core"
	"github.com/kmsblog/blogapi/pkg/jwt"
)

// ClaimsFromContext returns the session claims stored by RequireAuth.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	return jwt.GetClaims[Claims](ctx)
}

// WithClaims stores claims in the context, used by tests to skip the
// middleware.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return jwt.SetClaims(ctx, claims)
}

// RequireAuth rejects requests without a valid session cookie.
// A missing cookie is unauthorized; a cookie that fails verification,
// including an expired one, is forbidden. The raw token and the verified
// claims land in the request context via the jwt helpers.
func (m *SessionManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := m.fromRequest(r)
		if err != nil {
			if IsMissingSession(err) {
				core.Error(w, core.NewHTTPError(http.StatusUnauthorized, "authentication required"))
				return
			}
			core.Error(w, core.NewHTTPError(http.StatusForbidden, "invalid or expired token"))
			return
		}

		ctx := jwt.SetToken(r.Context(), token)
		ctx = WithClaims(ctx, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
