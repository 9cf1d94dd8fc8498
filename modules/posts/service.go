package posts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/kmsblog/blogapi/pkg/logger"
	"github.com/kmsblog/blogapi/pkg/upload"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50

	maxCoverBytes = 10 << 20
)

// Service orchestrates post operations over the storage and the optional
// cover image store.
type Service struct {
	storage  Storage
	comments CommentCounter
	remover  CommentRemover
	covers   upload.Storage
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCoverStorage enables cover image uploads.
func WithCoverStorage(s upload.Storage) Option {
	return func(svc *Service) { svc.covers = s }
}

// WithNotifier wires like notifications.
func WithNotifier(n Notifier) Option {
	return func(svc *Service) { svc.notifier = n }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) {
		if now != nil {
			svc.now = now
		}
	}
}

// NewService creates the post service.
func NewService(storage Storage, comments CommentCounter, remover CommentRemover, opts ...Option) *Service {
	s := &Service{
		storage:  storage,
		comments: comments,
		remover:  remover,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries the fields of a new post. Cover is optional.
type CreateInput struct {
	Title   string
	Summary string
	Content string
	Cover   *multipart.FileHeader
}

// Create stores a new post, uploading the cover image first when present.
func (s *Service) Create(ctx context.Context, authorID, authorNickname string, in CreateInput) (*Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	var coverURL string
	if in.Cover != nil {
		url, err := s.saveCover(ctx, in.Cover)
		if err != nil {
			return nil, err
		}
		coverURL = url
	}

	now := s.now().UTC()
	post := &Post{
		Title:     in.Title,
		Summary:   strings.TrimSpace(in.Summary),
		Content:   in.Content,
		Cover:     coverURL,
		Author:    authorNickname,
		AuthorID:  authorID,
		Likes:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.InfoContext(ctx, "post created",
		logger.PostID(post.ID),
		logger.UserID(authorID),
		logger.Component("posts"),
	)
	return post, nil
}

func (s *Service) saveCover(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if s.covers == nil {
		return "", fmt.Errorf("%w: cover uploads are not enabled", ErrInvalidCover)
	}
	if err := upload.ValidateImage(fh, maxCoverBytes); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCover, err)
	}

	key := upload.NewStorageKey(fh.Filename)
	url, err := s.covers.Save(ctx, fh, key)
	if err != nil {
		return "", fmt.Errorf("store cover: %w", err)
	}
	return url, nil
}

// Get loads one post with its derived comment count.
func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	post, err := s.storage.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.comments.CountByPostIDs(ctx, []string{post.ID})
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	post.CommentCount = counts[post.ID]
	return post, nil
}

// List returns one page of posts, newest first. Pages are zero-based and
// skip page*limit documents.
func (s *Service) List(ctx context.Context, page, limit int64) (*Page, error) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	skip := page * limit
	items, total, err := s.storage.ListPosts(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if err := s.attachCommentCounts(ctx, items); err != nil {
		return nil, err
	}

	return &Page{
		Posts:   items,
		Total:   total,
		HasNext: total > skip+int64(len(items)),
	}, nil
}

// Search returns posts whose title matches the query, newest first.
func (s *Service) Search(ctx context.Context, query string) ([]Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}

	items, err := s.storage.SearchPosts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	if err := s.attachCommentCounts(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) attachCommentCounts(ctx context.Context, items []Post) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	counts, err := s.comments.CountByPostIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}
	for i := range items {
		items[i].CommentCount = counts[items[i].ID]
	}
	return nil
}

// UpdateInput carries the editable post fields for an update request.
type UpdateInput struct {
	Title   *string
	Summary *string
	Content *string
	Cover   *multipart.FileHeader
}

// Update edits a post. Only the author may edit.
func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (*Post, error) {
	post, err := s.storage.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != callerID {
		return nil, ErrNotAuthor
	}

	update := Update{
		Title:   in.Title,
		Summary: in.Summary,
		Content: in.Content,
	}
	if in.Cover != nil {
		url, err := s.saveCover(ctx, in.Cover)
		if err != nil {
			return nil, err
		}
		update.Cover = &url
	}

	if err := s.storage.UpdatePost(ctx, id, update); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a post and its comments. Only the author may delete.
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	post, err := s.storage.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != callerID {
		return ErrNotAuthor
	}

	if err := s.storage.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	// Orphaned comments are useless without the post; remove them too.
	if err := s.remover.DeleteByPostID(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "cascade comment deletion failed",
			logger.PostID(id),
			logger.Error(err),
			logger.Component("posts"),
		)
	}
	return nil
}

// LikeResult reports the state after a like toggle.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// ToggleLike flips the caller's like on the post and returns the new state.
// The post author is notified on like, never on unlike or self-like.
func (s *Service) ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error) {
	post, err := s.storage.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, count, err := s.storage.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}

	if liked && s.notifier != nil && post.AuthorID != userID {
		s.notifier.PostLiked(ctx, post.AuthorID, userID, postID)
	}
	return &LikeResult{Liked: liked, LikeCount: count}, nil
}
