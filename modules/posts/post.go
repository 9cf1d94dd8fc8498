package posts

import (
	"context"
	"time"
)

// Post is a blog post document. Likes holds the ids of users who currently
// like the post; membership toggles per like request.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Cover     string    `json:"cover,omitempty"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// CommentCount is derived from the comments collection at read time
	// and never persisted with the post.
	CommentCount int64 `json:"commentCount"`
}

// Update carries the editable post fields. Nil pointers leave the stored
// value untouched.
type Update struct {
	Title   *string
	Summary *string
	Content *string
	Cover   *string
}

// Page is one slice of the post list, newest first.
type Page struct {
	Posts   []Post `json:"posts"`
	Total   int64  `json:"total"`
	HasNext bool   `json:"hasNext"`
}

// Storage is the post persistence contract.
type Storage interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	// ListPosts returns one page ordered newest first plus the total count.
	ListPosts(ctx context.Context, skip, limit int64) ([]Post, int64, error)
	UpdatePost(ctx context.Context, id string, update Update) error
	DeletePost(ctx context.Context, id string) error
	// ToggleLike atomically adds userID to the likes array, or removes it
	// when already present, and reports the resulting state.
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, likeCount int64, err error)
	// SearchPosts matches titles case-insensitively.
	SearchPosts(ctx context.Context, query string) ([]Post, error)
}

// CommentCounter derives per-post comment counts, backed by the comments
// collection.
type CommentCounter interface {
	CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error)
}

// CommentRemover cascades comment deletion when a post is removed.
type CommentRemover interface {
	DeleteByPostID(ctx context.Context, postID string) error
}

// Notifier is told about likes so the post author can be notified.
// Implementations must swallow their own failures; a notification must
// never fail the like.
type Notifier interface {
	PostLiked(ctx context.Context, recipientID, senderID, postID string)
}
