package users_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmsblog/blogapi/modules/auth"
	"github.com/kmsblog/blogapi/modules/comments"
	"github.com/kmsblog/blogapi/modules/posts"
	"github.com/kmsblog/blogapi/modules/users"
)

type fakeStorage struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newFakeStorage(seed ...*auth.User) *fakeStorage {
	s := &fakeStorage{users: make(map[string]*auth.User)}
	for _, u := range seed {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		clone := *u
		s.users[u.ID] = &clone
	}
	return s
}

func (s *fakeStorage) GetUserByID(_ context.Context, id string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, auth.ErrUserNotFound
}

func (s *fakeStorage) GetUserByNickname(_ context.Context, nickname string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Nickname == nickname {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *fakeStorage) UpdateUser(_ context.Context, id string, update users.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	if update.Nickname != nil {
		for _, other := range s.users {
			if other.ID != id && other.Nickname == *update.Nickname {
				return auth.ErrNicknameAlreadyExists
			}
		}
		u.Nickname = *update.Nickname
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.ProfileImage != nil {
		u.ProfileImage = *update.ProfileImage
	}
	return nil
}

type fakePostSource struct {
	mu       sync.Mutex
	authored map[string][]posts.Post
	liked    map[string][]posts.Post
	renames  map[string]string
}

func newFakePostSource() *fakePostSource {
	return &fakePostSource{
		authored: make(map[string][]posts.Post),
		liked:    make(map[string][]posts.Post),
		renames:  make(map[string]string),
	}
}

func (p *fakePostSource) ListByAuthorID(_ context.Context, authorID string) ([]posts.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]posts.Post(nil), p.authored[authorID]...), nil
}

func (p *fakePostSource) ListLikedBy(_ context.Context, userID string) ([]posts.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]posts.Post(nil), p.liked[userID]...), nil
}

func (p *fakePostSource) UpdateAuthorNickname(_ context.Context, authorID, nickname string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renames[authorID] = nickname
	return nil
}

type fakeCommentSource struct {
	mu       sync.Mutex
	authored map[string][]comments.Comment
	counts   map[string]int64
	renames  map[string]string
}

func newFakeCommentSource() *fakeCommentSource {
	return &fakeCommentSource{
		authored: make(map[string][]comments.Comment),
		counts:   make(map[string]int64),
		renames:  make(map[string]string),
	}
}

func (c *fakeCommentSource) ListByAuthorID(_ context.Context, authorID string) ([]comments.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]comments.Comment(nil), c.authored[authorID]...), nil
}

func (c *fakeCommentSource) CountByPostIDs(_ context.Context, postIDs []string) (map[string]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(postIDs))
	for _, id := range postIDs {
		out[id] = c.counts[id]
	}
	return out, nil
}

func (c *fakeCommentSource) UpdateAuthorNickname(_ context.Context, authorID, nickname string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renames[authorID] = nickname
	return nil
}

func TestService_FullProfile(t *testing.T) {
	t.Parallel()

	kim := &auth.User{ID: "u1", Email: "kim@example.com", Nickname: "kim"}
	storage := newFakeStorage(kim)

	postSource := newFakePostSource()
	postSource.authored["u1"] = []posts.Post{
		{ID: "p1", Title: "mine", AuthorID: "u1", Author: "kim", CreatedAt: time.Now()},
	}
	postSource.liked["u1"] = []posts.Post{
		{ID: "p9", Title: "someone else's", AuthorID: "u2", Author: "lee"},
	}

	commentSource := newFakeCommentSource()
	commentSource.authored["u1"] = []comments.Comment{
		{ID: "c1", PostID: "p9", AuthorID: "u1", Author: "kim", Content: "nice"},
	}
	commentSource.counts["p1"] = 4

	svc := users.NewService(storage, postSource, commentSource)

	t.Run("aggregates posts comments and likes", func(t *testing.T) {
		t.Parallel()

		profile, err := svc.FullProfile(context.Background(), "kim")
		require.NoError(t, err)

		assert.Equal(t, "u1", profile.User.ID)
		require.Len(t, profile.Posts, 1)
		assert.Equal(t, int64(4), profile.Posts[0].CommentCount)
		require.Len(t, profile.Comments, 1)
		require.Len(t, profile.Likes, 1)
		assert.Equal(t, "p9", profile.Likes[0].ID)
	})

	t.Run("unknown nickname", func(t *testing.T) {
		t.Parallel()

		_, err := svc.FullProfile(context.Background(), "nobody")
		require.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("nickname change propagates to posts and comments", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage(&auth.User{ID: "u1", Nickname: "kim"})
		postSource := newFakePostSource()
		commentSource := newFakeCommentSource()
		svc := users.NewService(storage, postSource, commentSource)

		user, err := svc.UpdateProfile(context.Background(), "u1", users.UpdateInput{Nickname: "kim2"})
		require.NoError(t, err)
		assert.Equal(t, "kim2", user.Nickname)
		assert.Equal(t, "kim2", postSource.renames["u1"])
		assert.Equal(t, "kim2", commentSource.renames["u1"])
	})

	t.Run("nickname conflict", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage(
			&auth.User{ID: "u1", Nickname: "kim"},
			&auth.User{ID: "u2", Nickname: "lee"},
		)
		svc := users.NewService(storage, newFakePostSource(), newFakeCommentSource())

		_, err := svc.UpdateProfile(context.Background(), "u1", users.UpdateInput{Nickname: "lee"})
		require.ErrorIs(t, err, auth.ErrNicknameAlreadyExists)
	})

	t.Run("password change rehashes", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage(&auth.User{ID: "u1", Nickname: "kim", PasswordHash: "old"})
		svc := users.NewService(storage, newFakePostSource(), newFakeCommentSource(),
			users.WithBcryptCost(4))

		user, err := svc.UpdateProfile(context.Background(), "u1", users.UpdateInput{Password: "new-pass"})
		require.NoError(t, err)
		assert.NotEqual(t, "old", user.PasswordHash)
		assert.NotEqual(t, "new-pass", user.PasswordHash)

		ok, err := auth.VerifyPassword("new-pass", user.PasswordHash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("same nickname without password is rejected", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage(&auth.User{ID: "u1", Nickname: "kim"})
		postSource := newFakePostSource()
		svc := users.NewService(storage, postSource, newFakeCommentSource())

		_, err := svc.UpdateProfile(context.Background(), "u1", users.UpdateInput{Nickname: "kim"})
		require.ErrorIs(t, err, users.ErrInvalidInput)
		assert.Empty(t, postSource.renames)
	})
}
