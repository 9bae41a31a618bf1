package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidSessionID = errors.New("invalid session id")
	ErrSessionNotFound  = errors.New("session not found")
)

type SessionConfig struct {
	Backend   BackendFactory
	Persister func(sessionID string) AuthPersister
	Publisher OrderEventPublisher

	// IdleTimeout evicts sessions not seen for this long. Zero keeps them
	// until Remove.
	IdleTimeout time.Duration
	// MaxSessions bounds the sessions held in memory; the least recently
	// seen one is evicted to make room. Zero means no bound.
	MaxSessions int
}

type registryEntry struct {
	sess     *Session
	lastSeen time.Time
}

// Registry hands out sessions by id. A session that is not in memory (for
// example after a restart or an eviction) is rebuilt only when its auth
// record was persisted.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*registryEntry
	config   SessionConfig
}

func NewRegistry(config SessionConfig) *Registry {
	return &Registry{
		sessions: make(map[string]*registryEntry),
		config:   config,
	}
}

// Create opens a session under a fresh id. A fresh id has no persisted
// record, so nothing is loaded.
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	id := uuid.NewString()
	sess := NewSession(id, r.config.Backend, r.persisterFor(id), r.config.Publisher)
	return r.insert(sess), nil
}

// Get returns the session for id. Unknown ids return ErrSessionNotFound
// unless an auth record was persisted for them.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidSessionID
	}

	r.mu.Lock()
	if entry, ok := r.sessions[id]; ok {
		entry.lastSeen = time.Now()
		r.mu.Unlock()
		return entry.sess, nil
	}
	r.mu.Unlock()

	persister := r.persisterFor(id)
	if persister == nil {
		return nil, ErrSessionNotFound
	}
	record, err := persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	if record == nil {
		return nil, ErrSessionNotFound
	}

	sess := NewSession(id, r.config.Backend, persister, r.config.Publisher)
	sess.Auth.Restore(*record)
	restored := r.insert(sess)
	if restored == sess {
		log.Printf("[diner-svc] session %s restored (authenticated=%t)", id, sess.Auth.IsAuthenticated())
	}
	return restored, nil
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	entry, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		entry.sess.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle drops sessions last seen before now minus IdleTimeout and returns
// how many were dropped. Persisted auth records are left in place.
func (r *Registry) EvictIdle(now time.Time) int {
	if r.config.IdleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-r.config.IdleTimeout)

	r.mu.Lock()
	var evicted []*Session
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			evicted = append(evicted, entry.sess)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, sess := range evicted {
		sess.Close()
	}
	return len(evicted)
}

// Run evicts idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.EvictIdle(now); n > 0 {
				log.Printf("[diner-svc] evicted %d idle sessions (%d open)", n, r.Len())
			}
		}
	}
}

// insert stores sess unless another request stored the same id first, in
// which case that session wins and sess is closed.
func (r *Registry) insert(sess *Session) *Session {
	r.mu.Lock()
	if entry, ok := r.sessions[sess.ID]; ok {
		entry.lastSeen = time.Now()
		r.mu.Unlock()
		sess.Close()
		return entry.sess
	}

	var evicted *Session
	if r.config.MaxSessions > 0 && len(r.sessions) >= r.config.MaxSessions {
		evicted = r.evictOldestLocked()
	}
	r.sessions[sess.ID] = &registryEntry{sess: sess, lastSeen: time.Now()}
	r.mu.Unlock()

	if evicted != nil {
		log.Printf("[diner-svc] WARNING: session limit reached, evicted %s", evicted.ID)
		evicted.Close()
	}
	return sess
}

func (r *Registry) evictOldestLocked() *Session {
	var oldestID string
	var oldest *registryEntry
	for id, entry := range r.sessions {
		if oldest == nil || entry.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, entry
		}
	}
	if oldest == nil {
		return nil
	}
	delete(r.sessions, oldestID)
	return oldest.sess
}

func (r *Registry) persisterFor(id string) AuthPersister {
	if r.config.Persister == nil {
		return nil
	}
	return r.config.Persister(id)
}
