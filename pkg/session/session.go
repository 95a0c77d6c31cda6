// Package session owns the row tables that operators edit.
//
// Every session holds exactly one [cog.RowSet]. Nothing is shared between
// sessions, and a session's rows are only ever changed through its [Manager],
// which serializes writers per session. Results are never stored: callers
// recompute from the rows on every read.
//
// Sessions are scratch state with a TTL, kept in one of several backends:
//   - memory: in-process map, the default
//   - file: JSON files in a directory, for single-host setups
//   - redis: keys with native expiry, for multi-instance servers
//   - mongo: documents with a TTL index on expires_at
//
// # Usage
//
//	store := session.NewMemoryStore()
//	mgr := session.NewManager(store, session.WithTTL(time.Hour))
//
//	sess, err := mgr.Create(ctx, nil)
//	rows, err := mgr.AppendRow(ctx, sess.ID, cog.NewRow("Camera", 5, 1.5))
//	res := cog.Compute(rows)
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
)

// DefaultTTL is the default session lifetime, renewed on every edit.
const DefaultTTL = 24 * time.Hour

// Session is one operator's table.
type Session struct {
	ID        string     `json:"id" bson:"_id"`
	Rows      cog.RowSet `json:"rows" bson:"rows"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Rows = s.Rows.Clone()
	return &c
}

// touch renews the expiry after a change.
func (s *Session) touch(ttl time.Duration) {
	now := time.Now()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, replacing any previous version.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and reports how many were removed.
	// Backends with native expiry may report zero.
	Cleanup(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// New creates a session holding rows.
func New(rows cog.RowSet, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if rows == nil {
		rows = cog.RowSet{}
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Rows:      rows,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// ParseID checks that id is a session identifier. Anything else is reported
// as a missing session, so IDs never reach a backend unchecked.
func ParseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return u.String(), nil
}
