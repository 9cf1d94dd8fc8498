package auth

import "errors"

// Account errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already in use")
	ErrNicknameAlreadyExists = errors.New("nickname already in use")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidInput          = errors.New("invalid input")
)

// Password hashing errors
var (
	ErrHashingFailed = errors.New("password hashing failed")
	ErrMalformedHash = errors.New("malformed password hash")
)

// OAuth errors
var (
	ErrKakaoAlreadyLinked = errors.New("kakao account already linked")

	ErrMissingCode   = errors.New("missing authorization code")
	ErrInvalidState  = errors.New("invalid oauth state")
	ErrStateNotFound = errors.New("oauth state not found or expired")
	ErrTokenExchange = errors.New("oauth token exchange failed")
	ErrProfileFetch  = errors.New("oauth profile fetch failed")
)
