package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
)

func newTestManager(t *testing.T, opts ...ManagerOption) *Manager {
	t.Helper()
	m := NewManager(NewMemoryStore(), opts...)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, WithTTL(time.Hour))

	sess, err := m.Create(ctx, cog.RowSet{cog.NewRow("Drone", 26, 0.09)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	rows, err := m.AppendRow(ctx, sess.ID, cog.NewRow("Camera", 5, 1.5))
	if err != nil {
		t.Fatalf("AppendRow() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d after append, want 2", len(rows))
	}

	rows, err = m.UpdateRow(ctx, sess.ID, 1, cog.Row{Component: "Camera", Weight: cog.Value(5)})
	if err != nil {
		t.Fatalf("UpdateRow() error: %v", err)
	}
	if rows[1].Complete() {
		t.Error("updated row should be incomplete")
	}
	if res := cog.Compute(rows); res.Skipped != 1 || res.TotalWeight != 26 {
		t.Errorf("Compute after update = %+v", res)
	}

	rows, err = m.DeleteRow(ctx, sess.ID, 0)
	if err != nil {
		t.Fatalf("DeleteRow() error: %v", err)
	}
	if len(rows) != 1 || rows[0].Component != "Camera" {
		t.Errorf("rows after delete = %+v", rows)
	}

	rows, err = m.ReplaceRows(ctx, sess.ID, cog.RowSet{cog.NewRow("a", 1, -1), cog.NewRow("b", 1, -1)})
	if err != nil {
		t.Fatalf("ReplaceRows() error: %v", err)
	}
	got, err := m.Rows(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Rows() error: %v", err)
	}
	if len(got) != 2 || len(rows) != 2 {
		t.Errorf("Rows() = %+v", got)
	}

	if err := m.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := m.Rows(ctx, sess.ID); !errs.Is(err, errs.ErrCodeSessionNotFound) {
		t.Errorf("Rows() after delete = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestManagerRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, WithMinWeight(0.5))

	if _, err := m.Create(ctx, cog.RowSet{cog.NewRow("light", 0.1, 1)}); !errs.Is(err, errs.ErrCodeInvalidWeight) {
		t.Errorf("Create() below floor = %v, want INVALID_WEIGHT", err)
	}

	sess, err := m.Create(ctx, nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := m.AppendRow(ctx, sess.ID, cog.NewRow("neg", -1, 0)); !errs.Is(err, errs.ErrCodeInvalidWeight) {
		t.Errorf("AppendRow() negative = %v, want INVALID_WEIGHT", err)
	}
	if _, err := m.UpdateRow(ctx, sess.ID, 3, cog.NewRow("x", 1, 1)); !errs.Is(err, errs.ErrCodeInvalidIndex) {
		t.Errorf("UpdateRow() out of range = %v, want INVALID_INDEX", err)
	}
	if _, err := m.DeleteRow(ctx, sess.ID, 0); !errs.Is(err, errs.ErrCodeInvalidIndex) {
		t.Errorf("DeleteRow() on empty table = %v, want INVALID_INDEX", err)
	}

	rows, _ := m.Rows(ctx, sess.ID)
	if len(rows) != 0 {
		t.Errorf("rejected edits must leave the table unchanged, got %+v", rows)
	}
}

func TestManagerUnknownSession(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	for _, id := range []string{"nope", New(nil, 0).ID} {
		if _, err := m.Get(ctx, id); !errs.Is(err, errs.ErrCodeSessionNotFound) {
			t.Errorf("Get(%q) = %v, want SESSION_NOT_FOUND", id, err)
		}
		if _, err := m.AppendRow(ctx, id, cog.NewRow("a", 1, 1)); !errs.Is(err, errs.ErrCodeSessionNotFound) {
			t.Errorf("AppendRow(%q) = %v, want SESSION_NOT_FOUND", id, err)
		}
		if err := m.Delete(ctx, id); !errs.Is(err, errs.ErrCodeSessionNotFound) {
			t.Errorf("Delete(%q) = %v, want SESSION_NOT_FOUND", id, err)
		}
	}
}

func TestManagerReleasesLocks(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	for range 100 {
		m.AppendRow(ctx, New(nil, 0).ID, cog.NewRow("a", 1, 1))
		m.DeleteRow(ctx, New(nil, 0).ID, 0)
	}

	sess, _ := m.Create(ctx, nil)
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AppendRow(ctx, sess.ID, cog.NewRow("r", 1, 1))
		}()
	}
	wg.Wait()

	m.mu.Lock()
	n := len(m.locks)
	m.mu.Unlock()
	if n != 0 {
		t.Errorf("len(locks) = %d after edits finished, want 0", n)
	}
}

func TestManagerRejectsOverflowingTotals(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	sess, err := m.Create(ctx, cog.RowSet{cog.NewRow("heavy", 1e308, 1)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := m.AppendRow(ctx, sess.ID, cog.NewRow("heavy", 1e308, 1)); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("AppendRow() = %v, want INVALID_INPUT", err)
	}
	rows, _ := m.Rows(ctx, sess.ID)
	if len(rows) != 1 {
		t.Errorf("rejected edit changed the table: %d rows", len(rows))
	}
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	a, _ := m.Create(ctx, nil)
	b, _ := m.Create(ctx, nil)
	m.AppendRow(ctx, a.ID, cog.NewRow("only-a", 1, 1))

	rows, _ := m.Rows(ctx, b.ID)
	if len(rows) != 0 {
		t.Errorf("session b sees rows from a: %+v", rows)
	}
}

func TestManagerConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	sess, _ := m.Create(ctx, nil)

	const n = 50
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.AppendRow(ctx, sess.ID, cog.NewRow("r", 1, float64(i))); err != nil {
				t.Errorf("AppendRow() error: %v", err)
			}
		}()
	}
	wg.Wait()

	rows, _ := m.Rows(ctx, sess.ID)
	if len(rows) != n {
		t.Errorf("len = %d, want %d (lost update)", len(rows), n)
	}
}

func TestManagerReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	seed := cog.RowSet{cog.NewRow("a", 1, 1)}
	sess, _ := m.Create(ctx, seed)
	*seed[0].Weight = 100

	rows, _ := m.Rows(ctx, sess.ID)
	*rows[0].Arm = 100

	again, _ := m.Rows(ctx, sess.ID)
	if *again[0].Weight != 1 || *again[0].Arm != 1 {
		t.Errorf("caller mutation leaked into session: %+v", again[0])
	}
}

func TestManagerCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, WithTTL(time.Hour))

	old := New(nil, time.Hour)
	old.ExpiresAt = time.Now().Add(-time.Second)
	store.Set(ctx, old)
	m.Create(ctx, nil)

	n, err := m.Cleanup(ctx)
	if err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}
}

func TestManagerRunCleanupStops(t *testing.T) {
	m := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunCleanup(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not return after cancel")
	}
}
