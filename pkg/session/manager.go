package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
	"github.com/matzehuels/cogbalance/pkg/observability"
)

// Manager is the only writer of session rows. Edits to one session are
// applied one at a time; different sessions never block each other.
type Manager struct {
	store     Store
	ttl       time.Duration
	minWeight float64
	logger    *log.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serializes edits to one session. refs counts holders and
// waiters; the entry leaves Manager.locks when it drops to zero.
type sessionLock struct {
	sync.Mutex
	refs int
}

// ManagerOption configures a [Manager].
type ManagerOption func(*Manager)

// WithTTL sets the session lifetime. Non-positive values keep DefaultTTL.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithMinWeight sets the weight floor rows are validated against.
func WithMinWeight(w float64) ManagerOption {
	return func(m *Manager) { m.minWeight = w }
}

// WithLogger sets the logger for session lifecycle events.
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a manager over store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:     store,
		ttl:       DefaultTTL,
		minWeight: errs.DefaultMinWeight,
		logger:    log.New(io.Discard),
		locks:     make(map[string]*sessionLock),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// MinWeight returns the configured weight floor.
func (m *Manager) MinWeight() float64 { return m.minWeight }

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// Create starts a session, optionally seeded with rows.
func (m *Manager) Create(ctx context.Context, rows cog.RowSet) (*Session, error) {
	if err := rows.Validate(m.minWeight); err != nil {
		observability.Calc().OnRejected(ctx, string(errs.GetCode(err)))
		return nil, err
	}
	sess := New(rows.Clone(), m.ttl)
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "store session")
	}
	m.logger.Debug("session created", "id", sess.ID, "rows", len(sess.Rows))
	observability.Session().OnSessionCreate(ctx, sess.ID)
	return sess.Clone(), nil
}

// Get returns a copy of the session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return m.load(ctx, id)
}

func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		observability.Session().OnSessionMiss(ctx, id)
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return sess, nil
}

// Rows returns a copy of the session's rows.
func (m *Manager) Rows(ctx context.Context, id string) (cog.RowSet, error) {
	sess, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Rows, nil
}

// edit applies fn to the session's rows under the session lock and stores
// the result. fn receives a private copy and returns the new table.
func (m *Manager) edit(ctx context.Context, id, op string, fn func(cog.RowSet) (cog.RowSet, error)) (cog.RowSet, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	unlock := m.lock(id)
	defer unlock()

	sess, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := fn(sess.Rows.Clone())
	if err == nil {
		err = rows.Validate(m.minWeight)
	}
	if err != nil {
		if errs.IsValidation(err) {
			observability.Calc().OnRejected(ctx, string(errs.GetCode(err)))
		}
		return nil, err
	}
	if rows == nil {
		rows = cog.RowSet{}
	}
	sess.Rows = rows
	sess.touch(m.ttl)
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "store session")
	}

	m.logger.Debug("session edited", "id", id, "op", op, "rows", len(rows))
	observability.Session().OnSessionEdit(ctx, id, op, len(rows))
	return rows.Clone(), nil
}

// ReplaceRows swaps the whole table.
func (m *Manager) ReplaceRows(ctx context.Context, id string, rows cog.RowSet) (cog.RowSet, error) {
	return m.edit(ctx, id, "replace", func(cog.RowSet) (cog.RowSet, error) {
		if err := rows.Validate(m.minWeight); err != nil {
			return nil, err
		}
		return rows.Clone(), nil
	})
}

// AppendRow adds a row at the end of the table.
func (m *Manager) AppendRow(ctx context.Context, id string, row cog.Row) (cog.RowSet, error) {
	return m.edit(ctx, id, "append", func(rs cog.RowSet) (cog.RowSet, error) {
		if err := row.Validate(m.minWeight); err != nil {
			return nil, err
		}
		return rs.Append(row.Clone()), nil
	})
}

// UpdateRow replaces the row at index i.
func (m *Manager) UpdateRow(ctx context.Context, id string, i int, row cog.Row) (cog.RowSet, error) {
	return m.edit(ctx, id, "update", func(rs cog.RowSet) (cog.RowSet, error) {
		if err := row.Validate(m.minWeight); err != nil {
			return nil, err
		}
		if err := rs.Update(i, row.Clone()); err != nil {
			return nil, err
		}
		return rs, nil
	})
}

// DeleteRow removes the row at index i.
func (m *Manager) DeleteRow(ctx context.Context, id string, i int) (cog.RowSet, error) {
	return m.edit(ctx, id, "delete", func(rs cog.RowSet) (cog.RowSet, error) {
		return rs.Delete(i)
	})
}

// Delete removes the session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}
	unlock := m.lock(id)
	defer unlock()

	if _, err := m.load(ctx, id); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "delete session")
	}
	m.logger.Debug("session deleted", "id", id)
	observability.Session().OnSessionDelete(ctx, id)
	return nil
}

// Cleanup sweeps expired sessions from the store.
func (m *Manager) Cleanup(ctx context.Context) (int, error) {
	n, err := m.store.Cleanup(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.logger.Info("expired sessions removed", "count", n)
	}
	observability.Session().OnSessionCleanup(ctx, n)
	return n, nil
}

// RunCleanup sweeps every interval until ctx is done.
func (m *Manager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Cleanup(ctx); err != nil {
				m.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
