package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kmsblog/blogapi/modules/auth"
	"github.com/kmsblog/blogapi/pkg/logger"
)

// Service aggregates member profiles and applies profile updates.
type Service struct {
	storage    Storage
	posts      PostSource
	comments   CommentSource
	bcryptCost int
	logger     *slog.Logger
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

// WithBcryptCost sets the cost used when rehashing a changed password.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// NewService creates the user profile service.
func NewService(storage Storage, posts PostSource, comments CommentSource, opts ...Option) *Service {
	s := &Service{
		storage:  storage,
		posts:    posts,
		comments: comments,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FullProfile loads a member's profile page data by nickname: the user,
// their posts with comment counts, their comments, and the posts they like.
func (s *Service) FullProfile(ctx context.Context, nickname string) (*FullProfile, error) {
	user, err := s.storage.GetUserByNickname(ctx, nickname)
	if err != nil {
		return nil, err
	}

	authored, err := s.posts.ListByAuthorID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list authored posts: %w", err)
	}
	if len(authored) > 0 {
		ids := make([]string, len(authored))
		for i := range authored {
			ids[i] = authored[i].ID
		}
		counts, err := s.comments.CountByPostIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("count comments: %w", err)
		}
		for i := range authored {
			authored[i].CommentCount = counts[authored[i].ID]
		}
	}

	commented, err := s.comments.ListByAuthorID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list authored comments: %w", err)
	}

	liked, err := s.posts.ListLikedBy(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list liked posts: %w", err)
	}

	return &FullProfile{
		User:     user,
		Posts:    authored,
		Comments: commented,
		Likes:    liked,
	}, nil
}

// UpdateInput carries the profile fields a member may change.
type UpdateInput struct {
	Nickname string
	Password string
}

// UpdateProfile applies the requested changes to the caller's account.
// A changed password is rehashed; a changed nickname must stay unique and
// is propagated to the author fields on the member's posts and comments.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateInput) (*auth.User, error) {
	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	update := Update{}
	newNickname := strings.TrimSpace(in.Nickname)
	nicknameChanged := newNickname != "" && newNickname != user.Nickname
	if nicknameChanged {
		update.Nickname = &newNickname
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}
	if update.Nickname == nil && update.PasswordHash == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if err := s.storage.UpdateUser(ctx, userID, update); err != nil {
		if errors.Is(err, auth.ErrNicknameAlreadyExists) {
			return nil, auth.ErrNicknameAlreadyExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if nicknameChanged {
		// Keep the denormalized author fields in step; failures are logged,
		// the profile update itself already succeeded.
		if err := s.posts.UpdateAuthorNickname(ctx, userID, newNickname); err != nil {
			s.logger.ErrorContext(ctx, "post author rename failed",
				logger.UserID(userID), logger.Error(err), logger.Component("users"))
		}
		if err := s.comments.UpdateAuthorNickname(ctx, userID, newNickname); err != nil {
			s.logger.ErrorContext(ctx, "comment author rename failed",
				logger.UserID(userID), logger.Error(err), logger.Component("users"))
		}
	}

	return s.storage.GetUserByID(ctx, userID)
}
