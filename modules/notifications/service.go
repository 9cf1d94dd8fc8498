package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kmsblog/blogapi/pkg/logger"
)

// Service records and serves notifications. It satisfies the notifier
// contracts of the posts and comments modules.
type Service struct {
	storage Storage
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the notification service.
func NewService(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PostLiked records a like notification for the post author.
func (s *Service) PostLiked(ctx context.Context, recipientID, senderID, postID string) {
	s.record(ctx, &Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        TypeLike,
		PostID:      postID,
	})
}

// PostCommented records a comment notification for the post author.
func (s *Service) PostCommented(ctx context.Context, recipientID, senderID, postID, commentText string) {
	s.record(ctx, &Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        TypeComment,
		PostID:      postID,
		CommentText: commentText,
	})
}

func (s *Service) record(ctx context.Context, n *Notification) {
	n.CreatedAt = s.now().UTC()
	if err := s.storage.CreateNotification(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "notification write failed",
			logger.UserID(n.RecipientID),
			logger.PostID(n.PostID),
			logger.Error(err),
			logger.Component("notifications"),
		)
	}
}

// List returns the recipient's notifications, newest first.
func (s *Service) List(ctx context.Context, recipientID string) ([]Notification, error) {
	items, err := s.storage.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

// MarkRead marks one notification as read. Only the recipient may mark it.
func (s *Service) MarkRead(ctx context.Context, id, callerID string) error {
	n, err := s.storage.GetNotification(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != callerID {
		return ErrNotRecipient
	}
	if n.IsRead {
		return nil
	}
	if err := s.storage.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
