package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndStops(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Converting...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.SetMessage("Almost there")
	time.Sleep(200 * time.Millisecond)
	s.Stop()
	s.Stop() // idempotent

	got := out.String()
	if !strings.Contains(got, "Converting...") || !strings.Contains(got, "Almost there") {
		t.Errorf("spinner output = %q", got)
	}
	if s.Cancelled() {
		t.Error("Stop should not report cancellation")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	s := newSpinnerTo(ctx, &out, "Working")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent cancel")
	}
}
