// Package session keeps boards alive for the length of a user session.
//
// A board lives only in memory and only for one session. There is no
// persistence across sessions; a session that expires takes its board
// with it. Two backends implement [Store]:
//   - [MemoryStore]: in-process map for a single server
//   - [RedisStore]: shared store for multi-instance deployments
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess := session.New(b, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // not found or expired
//	}
//	b := sess.Board()
package session

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/visionboard/pkg/board"
)

// ErrClosed is returned by a store after Close.
var ErrClosed = errors.New("session store closed")

// DefaultTTL is the default session duration.
const DefaultTTL = time.Hour

// Session holds one board between requests. Its id is the board id.
type Session struct {
	ID        string         `json:"id"`
	Snapshot  board.Snapshot `json:"board"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// New creates a session for b that expires after ttl.
func New(b *board.Board, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        b.ID(),
		Snapshot:  b.Snapshot(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Board restores the session's board.
func (s *Session) Board() *board.Board {
	return board.Restore(s.Snapshot)
}

// Update stores b's current state and extends the session by ttl.
func (s *Session) Update(b *board.Board, ttl time.Duration) {
	s.Snapshot = b.Snapshot()
	s.ExpiresAt = time.Now().Add(ttl)
}

// TTL returns the remaining lifetime, never negative.
func (s *Session) TTL() time.Duration {
	return max(time.Until(s.ExpiresAt), 0)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session until its ExpiresAt.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op).
	Cleanup(ctx context.Context) error

	// Close releases resources.
	Close() error
}
