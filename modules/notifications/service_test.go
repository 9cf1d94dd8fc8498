package notifications_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmsblog/blogapi/modules/notifications"
)

type fakeStorage struct {
	mu        sync.Mutex
	items     map[string]*notifications.Notification
	createErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{items: make(map[string]*notifications.Notification)}
}

func (s *fakeStorage) CreateNotification(_ context.Context, n *notifications.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	clone := *n
	s.items[n.ID] = &clone
	return nil
}

func (s *fakeStorage) ListByRecipient(_ context.Context, recipientID string) ([]notifications.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notifications.Notification
	for _, n := range s.items {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStorage) GetNotification(_ context.Context, id string) (*notifications.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok {
		return nil, notifications.ErrNotificationNotFound
	}
	clone := *n
	return &clone, nil
}

func (s *fakeStorage) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok {
		return notifications.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func TestService_Record(t *testing.T) {
	t.Parallel()

	t.Run("like and comment events are listed newest first", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc := notifications.NewService(storage, notifications.WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}))

		svc.PostLiked(context.Background(), "author", "fan", "p1")
		svc.PostCommented(context.Background(), "author", "fan", "p1", "great read")

		items, err := svc.List(context.Background(), "author")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, notifications.TypeComment, items[0].Type)
		assert.Equal(t, "great read", items[0].CommentText)
		assert.Equal(t, notifications.TypeLike, items[1].Type)
		assert.False(t, items[0].IsRead)
	})

	t.Run("write failure does not panic or propagate", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		storage.createErr = errors.New("db down")
		svc := notifications.NewService(storage)

		svc.PostLiked(context.Background(), "author", "fan", "p1")

		items, err := svc.List(context.Background(), "author")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("other recipients see nothing", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		svc := notifications.NewService(storage)
		svc.PostLiked(context.Background(), "author", "fan", "p1")

		items, err := svc.List(context.Background(), "someone-else")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestService_MarkRead(t *testing.T) {
	t.Parallel()

	t.Run("recipient marks read", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		svc := notifications.NewService(storage)
		svc.PostLiked(context.Background(), "author", "fan", "p1")

		items, err := svc.List(context.Background(), "author")
		require.NoError(t, err)
		require.Len(t, items, 1)

		require.NoError(t, svc.MarkRead(context.Background(), items[0].ID, "author"))

		items, err = svc.List(context.Background(), "author")
		require.NoError(t, err)
		assert.True(t, items[0].IsRead)

		// Marking twice is a no-op.
		require.NoError(t, svc.MarkRead(context.Background(), items[0].ID, "author"))
	})

	t.Run("non-recipient is rejected", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		svc := notifications.NewService(storage)
		svc.PostLiked(context.Background(), "author", "fan", "p1")

		items, err := svc.List(context.Background(), "author")
		require.NoError(t, err)

		err = svc.MarkRead(context.Background(), items[0].ID, "fan")
		require.ErrorIs(t, err, notifications.ErrNotRecipient)
	})

	t.Run("unknown notification", func(t *testing.T) {
		t.Parallel()

		svc := notifications.NewService(newFakeStorage())
		err := svc.MarkRead(context.Background(), "missing", "author")
		require.ErrorIs(t, err, notifications.ErrNotificationNotFound)
	})
}
