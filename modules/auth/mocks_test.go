package auth_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kmsblog/blogapi/modules/auth"
)

// fakeStorage is an in-memory auth.Storage enforcing the same uniqueness
// rules as the database indexes.
type fakeStorage struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{users: make(map[string]*auth.User)}
}

func (s *fakeStorage) CreateUser(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.KakaoID != "" && u.KakaoID == user.KakaoID {
			return auth.ErrKakaoAlreadyLinked
		}
		if u.Email != "" && u.Email == user.Email {
			return auth.ErrEmailAlreadyExists
		}
		if u.Nickname == user.Nickname {
			return auth.ErrNicknameAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeStorage) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrUserNotFound
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

func (s *fakeStorage) GetUserByKakaoID(_ context.Context, kakaoID string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.KakaoID != "" && u.KakaoID == kakaoID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

// racingStorage simulates a registration landing between the duplicate
// pre-check and the insert: the lookup misses, the insert collides.
type racingStorage struct {
	*fakeStorage
	createErr error
}

func (s *racingStorage) GetUserByEmail(context.Context, string) (*auth.User, error) {
	return nil, auth.ErrUserNotFound
}

func (s *racingStorage) CreateUser(context.Context, *auth.User) error {
	return s.createErr
}

// lateLinkStorage misses the provider-id lookup a fixed number of times, so
// an insert racing against an existing link collides on the kakao id.
type lateLinkStorage struct {
	*fakeStorage
	misses int
}

func (s *lateLinkStorage) GetUserByKakaoID(ctx context.Context, kakaoID string) (*auth.User, error) {
	if s.misses > 0 {
		s.misses--
		return nil, auth.ErrUserNotFound
	}
	return s.fakeStorage.GetUserByKakaoID(ctx, kakaoID)
}

// fakeStateStore remembers saved states and consumes each at most once.
type fakeStateStore struct {
	mu     sync.Mutex
	states map[string]bool
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: make(map[string]bool)}
}

func (s *fakeStateStore) Save(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = true
	return nil
}

func (s *fakeStateStore) Consume(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.states[state] {
		return auth.ErrStateNotFound
	}
	delete(s.states, state)
	return nil
}

// fakeAdapter resolves a fixed profile for a known code.
type fakeAdapter struct {
	profile    auth.Profile
	acceptCode string
	resolveErr error
}

func (a *fakeAdapter) Name() string { return "kakao" }

func (a *fakeAdapter) AuthCodeURL(state string) string {
	return "https://provider.test/authorize?state=" + state
}

func (a *fakeAdapter) ResolveProfile(_ context.Context, code string) (auth.Profile, error) {
	if a.resolveErr != nil {
		return auth.Profile{}, a.resolveErr
	}
	if code != a.acceptCode {
		return auth.Profile{}, auth.ErrTokenExchange
	}
	return a.profile, nil
}
