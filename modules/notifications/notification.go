package notifications

import (
	"context"
	"time"
)

// Notification types.
const (
	TypeLike    = "like"
	TypeComment = "comment"
)

// Notification tells a post author that someone liked or commented on
// their post.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	SenderID    string    `json:"senderId"`
	Type        string    `json:"type"`
	PostID      string    `json:"postId"`
	CommentText string    `json:"commentText,omitempty"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Storage is the notification persistence contract.
type Storage interface {
	CreateNotification(ctx context.Context, n *Notification) error
	// ListByRecipient returns the recipient's notifications, newest first.
	ListByRecipient(ctx context.Context, recipientID string) ([]Notification, error)
	GetNotification(ctx context.Context, id string) (*Notification, error)
	MarkRead(ctx context.Context, id string) error
}
