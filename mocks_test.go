package auth_test

import (
	"context"
	"sync"

	repository "github.com/goliatone/go-repository-bun"

	auth "github.com/goliatone/go-login"
)

// memStore is an in-memory auth.UserStore used to exercise the credential
// path without a database.
type memStore struct {
	mu        sync.Mutex
	users     map[string]*auth.User
	lookups   int
	attempted []string
	succeeded []string
	failWith  error
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*auth.User{}}
}

func (s *memStore) add(user *auth.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Email] = user
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, err := s.GetByEmailWithPassword(ctx, email)
	if err != nil {
		return nil, err
	}
	clone := *user
	clone.PasswordHash = ""
	return &clone, nil
}

func (s *memStore) GetByEmailWithPassword(ctx context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookups++

	if s.failWith != nil {
		return nil, s.failWith
	}

	user, ok := s.users[email]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}

	clone := *user
	return &clone, nil
}

func (s *memStore) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempted = append(s.attempted, user.Email)
	if stored, ok := s.users[user.Email]; ok {
		stored.LoginAttempts++
	}
	return nil
}

func (s *memStore) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.succeeded = append(s.succeeded, user.Email)
	if stored, ok := s.users[user.Email]; ok {
		stored.LoginAttempts = 0
		stored.LoginAttemptAt = nil
	}
	return nil
}

var _ auth.UserStore = (*memStore)(nil)

// recordSink captures activity events for assertions.
type recordSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (s *recordSink) Record(ctx context.Context, event auth.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordSink) byType(eventType auth.ActivityEventType) []auth.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []auth.ActivityEvent
	for _, e := range s.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

var _ auth.ActivitySink = (*recordSink)(nil)
