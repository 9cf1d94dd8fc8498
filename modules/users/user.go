package users

import (
	"context"

	"github.com/kmsblog/blogapi/modules/auth"
	"github.com/kmsblog/blogapi/modules/comments"
	"github.com/kmsblog/blogapi/modules/posts"
)

// FullProfile is everything shown on a member's profile page.
type FullProfile struct {
	User     *auth.User         `json:"user"`
	Posts    []posts.Post       `json:"posts"`
	Comments []comments.Comment `json:"comments"`
	Likes    []posts.Post       `json:"likes"`
}

// Update carries the editable profile fields. Nil pointers leave the
// stored value untouched.
type Update struct {
	Nickname     *string
	PasswordHash *string
	ProfileImage *string
}

// Storage is the user persistence contract for profile operations.
// Lookups reuse the auth sentinels: ErrUserNotFound on a miss,
// ErrNicknameAlreadyExists when an update hits the unique index.
type Storage interface {
	GetUserByID(ctx context.Context, id string) (*auth.User, error)
	GetUserByNickname(ctx context.Context, nickname string) (*auth.User, error)
	UpdateUser(ctx context.Context, id string, update Update) error
}

// PostSource serves the profile's post sections.
type PostSource interface {
	ListByAuthorID(ctx context.Context, authorID string) ([]posts.Post, error)
	ListLikedBy(ctx context.Context, userID string) ([]posts.Post, error)
	UpdateAuthorNickname(ctx context.Context, authorID, nickname string) error
}

// CommentSource serves the profile's comment section.
type CommentSource interface {
	ListByAuthorID(ctx context.Context, authorID string) ([]comments.Comment, error)
	CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error)
	UpdateAuthorNickname(ctx context.Context, authorID, nickname string) error
}
