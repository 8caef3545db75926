package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dkotenko/budgetbot/core/logger"
)

const (
	// DefaultTTL is how long an idle session survives before eviction.
	DefaultTTL = 12 * time.Hour

	sweepInterval = 10 * time.Minute
)

// Store owns the session map. It is injected into the dispatcher rather
// than held in package state so tests can run isolated instances.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	ttl      time.Duration
}

// NewStore builds a session store. A non-positive ttl falls back to
// DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
	}
}

// Get returns the user's session, creating an empty one on first use.
func (st *Store) Get(userID int64) *Session {
	st.mu.RLock()
	s, ok := st.sessions[userID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok = st.sessions[userID]; ok {
		return s
	}
	s = newSession(userID)
	st.sessions[userID] = s
	return s
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// StartEvictor launches the idle-session sweeper. It stops when ctx is
// cancelled.
func (st *Store) StartEvictor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := st.evictIdle(time.Now()); n > 0 {
					logger.Debug(ctx, "session", "sessions_evicted", slog.Int("count", n))
				}
			}
		}
	}()
}

// evictIdle removes sessions untouched for longer than the TTL. A
// session mid-dispatch holds its dispatch lock, so eviction skips any
// it cannot acquire immediately.
func (st *Store) evictIdle(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	evicted := 0
	for id, s := range st.sessions {
		if now.Sub(s.idleSince()) < st.ttl {
			continue
		}
		if !s.dispatchMu.TryLock() {
			continue
		}
		s.dispatchMu.Unlock()
		delete(st.sessions, id)
		evicted++
	}
	return evicted
}
