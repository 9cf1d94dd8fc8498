package auth

import (
	"time"

	"github.com/kmsblog/blogapi/pkg/jwt"
)

// Claims is the signed session payload identifying an authenticated user.
// Subject carries the user id; email is omitted for OAuth-only accounts.
type Claims struct {
	jwt.StandardClaims
	Email    string `json:"email,omitempty"`
	Nickname string `json:"nickname"`
}

// NewClaims builds session claims for the user, valid for ttl from now.
func NewClaims(user *User, now time.Time, ttl time.Duration) Claims {
	return Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Email:    user.Email,
		Nickname: user.Nickname,
	}
}
