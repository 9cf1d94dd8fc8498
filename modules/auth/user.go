package auth

import (
	"context"
	"time"
)

// User is a local account. Accounts created through registration carry a
// password hash; accounts created through Kakao OAuth carry a KakaoID and
// may have no email or password. Email and nickname are globally unique
// when present, enforced by unique indexes in the store.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"`
	KakaoID      string    `json:"kakaoId,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Storage defines the persistence operations the auth services need.
//
// CreateUser must report unique-index violations as ErrEmailAlreadyExists
// or ErrNicknameAlreadyExists; that signal, not the lookup fast path, is
// the authoritative duplicate check. Lookups return ErrUserNotFound when
// no document matches.
type Storage interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByKakaoID(ctx context.Context, kakaoID string) (*User, error)
}
