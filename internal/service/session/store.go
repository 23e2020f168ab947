package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cistcor/cistbot/backend/internal/model/chat"
)

// Store owns every live conversation session. A single mutex guards the
// map and the sessions behind it, so message appends for one user and the
// expiry sweep never interleave mid-mutation.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
	ttl      time.Duration

	now func() time.Time
}

// NewStore creates an empty store whose sessions expire after ttl of
// inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*chat.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetOrCreate returns the session for userID, creating an empty one on
// first contact.
func (s *Store) GetOrCreate(userID string) chat.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	return snapshot(sess)
}

// Append adds a turn to the user's session and refreshes its activity
// timestamp. The session is created if it does not exist yet.
func (s *Store) Append(userID, role, content string) chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	msg := chat.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	sess.Messages = append(sess.Messages, msg)
	sess.LastActivity = s.now()
	return msg
}

// RecentHistory returns a copy of the last n messages, oldest first. The
// stored sequence is never mutated.
func (s *Store) RecentHistory(userID string, n int) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok || n <= 0 {
		return nil
	}

	start := 0
	if len(sess.Messages) > n {
		start = len(sess.Messages) - n
	}
	history := make([]chat.Message, len(sess.Messages)-start)
	copy(history, sess.Messages[start:])
	return history
}

// Sweep removes every session idle for longer than the store TTL and
// returns how many were evicted. Calling it twice in a row is a no-op the
// second time.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for userID, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunSweeper sweeps expired sessions on a fixed interval equal to the TTL
// until the context is cancelled. It is meant to run as a background
// goroutine started from main alongside the HTTP server.
func (s *Store) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Printf("[session] swept %d expired sessions", n)
			}
		}
	}
}

func (s *Store) getOrCreateLocked(userID string) *chat.Session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &chat.Session{
			UserID:       userID,
			Messages:     make([]chat.Message, 0, 8),
			LastActivity: s.now(),
		}
		s.sessions[userID] = sess
	}
	return sess
}

func snapshot(sess *chat.Session) chat.Session {
	copied := *sess
	copied.Messages = make([]chat.Message, len(sess.Messages))
	copy(copied.Messages, sess.Messages)
	return copied
}
