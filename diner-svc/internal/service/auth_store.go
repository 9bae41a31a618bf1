package service

import (
	"context"
	"log"
	"sync"

	"qr-dine/diner-svc/internal/domain"
)

type AuthState struct {
	User            *domain.User `json:"user"`
	AccessToken     string       `json:"accessToken,omitempty"`
	RefreshToken    string       `json:"refreshToken,omitempty"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// AuthStore caches the signed-in identity and its tokens. It never calls the
// backend; the only side effect is writing the record through the persister.
type AuthStore struct {
	mu          sync.RWMutex
	state       AuthState
	persister   AuthPersister
	subscribers map[int]func(AuthState)
	nextSubID   int
}

func NewAuthStore(persister AuthPersister) *AuthStore {
	return &AuthStore{
		persister:   persister,
		subscribers: make(map[int]func(AuthState)),
	}
}

// Hydrate restores the persisted record. A missing record leaves the store signed out.
func (s *AuthStore) Hydrate(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	record, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	if record != nil {
		s.Restore(*record)
	}
	return nil
}

// Restore loads a record read from the persister without writing it back.
func (s *AuthStore) Restore(record domain.AuthRecord) {
	s.mu.Lock()
	s.state = AuthState{
		User:            copyUser(record.User),
		AccessToken:     record.AccessToken,
		RefreshToken:    record.RefreshToken,
		IsAuthenticated: record.AccessToken != "",
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

func (s *AuthStore) Login(ctx context.Context, user domain.User, accessToken, refreshToken string) {
	s.update(ctx, func(st *AuthState) {
		st.User = &user
		st.AccessToken = accessToken
		st.RefreshToken = refreshToken
	})
}

func (s *AuthStore) Logout(ctx context.Context) {
	s.reset(ctx)
}

// ClearAuth is the same full reset as Logout; screens that are not "logging out" use it.
func (s *AuthStore) ClearAuth(ctx context.Context) {
	s.reset(ctx)
}

func (s *AuthStore) UpdateTokens(ctx context.Context, accessToken, refreshToken string) {
	s.update(ctx, func(st *AuthState) {
		st.AccessToken = accessToken
		st.RefreshToken = refreshToken
	})
}

func (s *AuthStore) UpdateUser(ctx context.Context, user domain.User) {
	s.update(ctx, func(st *AuthState) {
		st.User = &user
	})
}

func (s *AuthStore) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

func (s *AuthStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken
}

func (s *AuthStore) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.state.User)
}

// Subscribe registers fn to receive every state change. The returned func unregisters it.
func (s *AuthStore) Subscribe(fn func(AuthState)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *AuthStore) update(ctx context.Context, mutate func(*AuthState)) {
	s.mu.Lock()
	mutate(&s.state)
	s.state.IsAuthenticated = s.state.AccessToken != ""
	snapshot := s.snapshotLocked()
	if s.persister != nil {
		record := domain.AuthRecord{
			User:            snapshot.User,
			AccessToken:     snapshot.AccessToken,
			RefreshToken:    snapshot.RefreshToken,
			IsAuthenticated: snapshot.IsAuthenticated,
		}
		if err := s.persister.Save(ctx, record); err != nil {
			log.Printf("[diner-svc] WARNING: failed to persist auth record: %v", err)
		}
	}
	s.mu.Unlock()

	s.notify(snapshot)
}

func (s *AuthStore) reset(ctx context.Context) {
	s.mu.Lock()
	s.state = AuthState{}
	if s.persister != nil {
		if err := s.persister.Clear(ctx); err != nil {
			log.Printf("[diner-svc] WARNING: failed to clear auth record: %v", err)
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

func (s *AuthStore) snapshotLocked() AuthState {
	snapshot := s.state
	snapshot.User = copyUser(s.state.User)
	return snapshot
}

func (s *AuthStore) notify(state AuthState) {
	s.mu.RLock()
	subscribers := make([]func(AuthState), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subscribers {
		fn(state)
	}
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
