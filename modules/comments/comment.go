package comments

import (
	"context"
	"time"
)

// Comment is a single comment on a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Storage is the comment persistence contract.
type Storage interface {
	CreateComment(ctx context.Context, comment *Comment) error
	GetComment(ctx context.Context, id string) (*Comment, error)
	// ListByPostID returns the post's comments, oldest first.
	ListByPostID(ctx context.Context, postID string) ([]Comment, error)
	UpdateComment(ctx context.Context, id, content string, updatedAt time.Time) error
	DeleteComment(ctx context.Context, id string) error
	DeleteByPostID(ctx context.Context, postID string) error
	CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error)
}

// PostResolver looks up the post being commented on. The returned author id
// drives the comment notification.
type PostResolver interface {
	PostAuthorID(ctx context.Context, postID string) (string, error)
}

// Notifier is told about new comments so the post author can be notified.
// Implementations must swallow their own failures; a notification must
// never fail the comment.
type Notifier interface {
	PostCommented(ctx context.Context, recipientID, senderID, postID, commentText string)
}
