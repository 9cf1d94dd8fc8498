package posts_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kmsblog/blogapi/modules/posts"
)

// fakeStorage is an in-memory posts.Storage mirroring the document-store
// semantics: newest-first ordering and set-like likes.
type fakeStorage struct {
	mu    sync.Mutex
	items map[string]*posts.Post
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{items: make(map[string]*posts.Post)}
}

func (s *fakeStorage) CreatePost(_ context.Context, post *posts.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	clone := *post
	clone.Likes = append([]string(nil), post.Likes...)
	s.items[post.ID] = &clone
	return nil
}

func (s *fakeStorage) GetPost(_ context.Context, id string) (*posts.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, posts.ErrPostNotFound
	}
	clone := *p
	clone.Likes = append([]string(nil), p.Likes...)
	return &clone, nil
}

func (s *fakeStorage) sortedLocked() []posts.Post {
	out := make([]posts.Post, 0, len(s.items))
	for _, p := range s.items {
		clone := *p
		clone.Likes = append([]string(nil), p.Likes...)
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *fakeStorage) ListPosts(_ context.Context, skip, limit int64) ([]posts.Post, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.sortedLocked()
	total := int64(len(all))
	if skip >= total {
		return []posts.Post{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

func (s *fakeStorage) UpdatePost(_ context.Context, id string, update posts.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return posts.ErrPostNotFound
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Summary != nil {
		p.Summary = *update.Summary
	}
	if update.Content != nil {
		p.Content = *update.Content
	}
	if update.Cover != nil {
		p.Cover = *update.Cover
	}
	return nil
}

func (s *fakeStorage) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return posts.ErrPostNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *fakeStorage) ToggleLike(_ context.Context, postID, userID string) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[postID]
	if !ok {
		return false, 0, posts.ErrPostNotFound
	}
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return false, int64(len(p.Likes)), nil
		}
	}
	p.Likes = append(p.Likes, userID)
	return true, int64(len(p.Likes)), nil
}

func (s *fakeStorage) SearchPosts(_ context.Context, query string) ([]posts.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []posts.Post
	for _, p := range s.sortedLocked() {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeComments serves canned comment counts and records cascade deletes.
type fakeComments struct {
	mu      sync.Mutex
	counts  map[string]int64
	deleted []string
}

func newFakeComments() *fakeComments {
	return &fakeComments{counts: make(map[string]int64)}
}

func (c *fakeComments) CountByPostIDs(_ context.Context, postIDs []string) (map[string]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(postIDs))
	for _, id := range postIDs {
		out[id] = c.counts[id]
	}
	return out, nil
}

func (c *fakeComments) DeleteByPostID(_ context.Context, postID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, postID)
	return nil
}

// recordingNotifier captures like notifications.
type recordingNotifier struct {
	mu    sync.Mutex
	likes []likeEvent
}

type likeEvent struct {
	recipientID, senderID, postID string
}

func (n *recordingNotifier) PostLiked(_ context.Context, recipientID, senderID, postID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.likes = append(n.likes, likeEvent{recipientID, senderID, postID})
}

func (n *recordingNotifier) events() []likeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]likeEvent(nil), n.likes...)
}
