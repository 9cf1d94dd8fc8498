package comments

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kmsblog/blogapi/pkg/logger"
)

// Service orchestrates comment operations.
type Service struct {
	storage  Storage
	posts    PostResolver
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier wires comment notifications.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

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

// NewService creates the comment service.
func NewService(storage Storage, posts PostResolver, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		posts:   posts,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a comment on the post and notifies the post author.
func (s *Service) Create(ctx context.Context, authorID, authorNickname, postID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if postID == "" {
		return nil, fmt.Errorf("%w: postId is required", ErrInvalidInput)
	}

	postAuthorID, err := s.posts.PostAuthorID(ctx, postID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	comment := &Comment{
		PostID:    postID,
		Content:   content,
		Author:    authorNickname,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment created",
		logger.PostID(postID),
		logger.UserID(authorID),
		logger.Component("comments"),
	)

	if s.notifier != nil && postAuthorID != authorID {
		s.notifier.PostCommented(ctx, postAuthorID, authorID, postID, content)
	}
	return comment, nil
}

// ListByPost returns the post's comments, oldest first.
func (s *Service) ListByPost(ctx context.Context, postID string) ([]Comment, error) {
	items, err := s.storage.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return items, nil
}

// Update edits a comment's content. Only the author may edit.
func (s *Service) Update(ctx context.Context, id, callerID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	comment, err := s.storage.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != callerID {
		return nil, ErrNotAuthor
	}

	if err := s.storage.UpdateComment(ctx, id, content, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return s.storage.GetComment(ctx, id)
}

// Delete removes a comment. Only the author may delete.
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	comment, err := s.storage.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if comment.AuthorID != callerID {
		return ErrNotAuthor
	}

	if err := s.storage.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
