package jwt

import "errors"

var (
	ErrInvalidToken      = errors.New("jwt: invalid token")
	ErrExpiredToken      = errors.New("jwt: token is expired")
	ErrInvalidSignature  = errors.New("jwt: invalid signature")
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrMissingClaims     = errors.New("jwt: missing claims")
	ErrInvalidClaims     = errors.New("jwt: invalid claims")

	// ErrUnexpectedSigningMethod is returned when a token header declares an
	// algorithm other than HS256, guarding against algorithm confusion.
	ErrUnexpectedSigningMethod = errors.New("jwt: unexpected signing method")
)
