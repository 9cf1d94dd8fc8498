package comments_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmsblog/blogapi/modules/comments"
	"github.com/kmsblog/blogapi/modules/posts"
)

// fakeStorage is an in-memory comments.Storage preserving insertion order
// per post.
type fakeStorage struct {
	mu    sync.Mutex
	items []*comments.Comment
}

func (s *fakeStorage) CreateComment(_ context.Context, c *comments.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	clone := *c
	s.items = append(s.items, &clone)
	return nil
}

func (s *fakeStorage) GetComment(_ context.Context, id string) (*comments.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.ID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, comments.ErrCommentNotFound
}

func (s *fakeStorage) ListByPostID(_ context.Context, postID string) ([]comments.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []comments.Comment
	for _, c := range s.items {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeStorage) UpdateComment(_ context.Context, id, content string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.ID == id {
			c.Content = content
			c.UpdatedAt = updatedAt
			return nil
		}
	}
	return comments.ErrCommentNotFound
}

func (s *fakeStorage) DeleteComment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.items {
		if c.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return comments.ErrCommentNotFound
}

func (s *fakeStorage) DeleteByPostID(_ context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, c := range s.items {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	s.items = kept
	return nil
}

func (s *fakeStorage) CountByPostIDs(_ context.Context, postIDs []string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(postIDs))
	for _, id := range postIDs {
		for _, c := range s.items {
			if c.PostID == id {
				out[id]++
			}
		}
	}
	return out, nil
}

// fakePosts resolves post authors from a fixed map.
type fakePosts struct {
	authors map[string]string
}

func (p *fakePosts) PostAuthorID(_ context.Context, postID string) (string, error) {
	author, ok := p.authors[postID]
	if !ok {
		return "", posts.ErrPostNotFound
	}
	return author, nil
}

type commentEvent struct {
	recipientID, senderID, postID, text string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []commentEvent
}

func (n *recordingNotifier) PostCommented(_ context.Context, recipientID, senderID, postID, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, commentEvent{recipientID, senderID, postID, text})
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	resolver := &fakePosts{authors: map[string]string{"p1": "author-1"}}

	t.Run("stores comment and notifies post author", func(t *testing.T) {
		t.Parallel()

		notifier := &recordingNotifier{}
		svc := comments.NewService(&fakeStorage{}, resolver, comments.WithNotifier(notifier))

		comment, err := svc.Create(context.Background(), "u2", "lee", "p1", "nice post")
		require.NoError(t, err)
		assert.NotEmpty(t, comment.ID)
		assert.Equal(t, "lee", comment.Author)
		assert.Equal(t, "p1", comment.PostID)

		require.Len(t, notifier.events, 1)
		assert.Equal(t, commentEvent{
			recipientID: "author-1",
			senderID:    "u2",
			postID:      "p1",
			text:        "nice post",
		}, notifier.events[0])
	})

	t.Run("own post is not notified", func(t *testing.T) {
		t.Parallel()

		notifier := &recordingNotifier{}
		svc := comments.NewService(&fakeStorage{}, resolver, comments.WithNotifier(notifier))

		_, err := svc.Create(context.Background(), "author-1", "kim", "p1", "my own note")
		require.NoError(t, err)
		assert.Empty(t, notifier.events)
	})

	t.Run("unknown post", func(t *testing.T) {
		t.Parallel()

		svc := comments.NewService(&fakeStorage{}, resolver)
		_, err := svc.Create(context.Background(), "u2", "lee", "missing", "hello")
		require.ErrorIs(t, err, posts.ErrPostNotFound)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		t.Parallel()

		svc := comments.NewService(&fakeStorage{}, resolver)
		_, err := svc.Create(context.Background(), "u2", "lee", "p1", "   ")
		require.ErrorIs(t, err, comments.ErrInvalidInput)
	})
}

func TestService_ListByPost(t *testing.T) {
	t.Parallel()

	resolver := &fakePosts{authors: map[string]string{"p1": "a", "p2": "a"}}
	svc := comments.NewService(&fakeStorage{}, resolver)

	for _, text := range []string{"first", "second"} {
		_, err := svc.Create(context.Background(), "u2", "lee", "p1", text)
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), "u2", "lee", "p2", "elsewhere")
	require.NoError(t, err)

	items, err := svc.ListByPost(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Content)
	assert.Equal(t, "second", items[1].Content)
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	resolver := &fakePosts{authors: map[string]string{"p1": "a"}}

	t.Run("author edits content", func(t *testing.T) {
		t.Parallel()

		svc := comments.NewService(&fakeStorage{}, resolver)
		created, err := svc.Create(context.Background(), "u2", "lee", "p1", "typo")
		require.NoError(t, err)

		updated, err := svc.Update(context.Background(), created.ID, "u2", "fixed")
		require.NoError(t, err)
		assert.Equal(t, "fixed", updated.Content)
	})

	t.Run("non-author is rejected", func(t *testing.T) {
		t.Parallel()

		svc := comments.NewService(&fakeStorage{}, resolver)
		created, err := svc.Create(context.Background(), "u2", "lee", "p1", "mine")
		require.NoError(t, err)

		_, err = svc.Update(context.Background(), created.ID, "u3", "hijack")
		require.ErrorIs(t, err, comments.ErrNotAuthor)
	})

	t.Run("unknown comment", func(t *testing.T) {
		t.Parallel()

		svc := comments.NewService(&fakeStorage{}, resolver)
		_, err := svc.Update(context.Background(), "missing", "u2", "text")
		require.ErrorIs(t, err, comments.ErrCommentNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	resolver := &fakePosts{authors: map[string]string{"p1": "a"}}

	t.Run("author deletes", func(t *testing.T) {
		t.Parallel()

		svc := comments.NewService(&fakeStorage{}, resolver)
		created, err := svc.Create(context.Background(), "u2", "lee", "p1", "bye")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), created.ID, "u2"))

		items, err := svc.ListByPost(context.Background(), "p1")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("non-author is rejected", func(t *testing.T) {
		t.Parallel()

		svc := comments.NewService(&fakeStorage{}, resolver)
		created, err := svc.Create(context.Background(), "u2", "lee", "p1", "keep")
		require.NoError(t, err)

		err = svc.Delete(context.Background(), created.ID, "u3")
		require.ErrorIs(t, err, comments.ErrNotAuthor)
	})
}
