// Package cli implements the cogbalance command-line interface.
//
// This package provides commands for computing the center of gravity of a
// row table, rendering the placement overlay, editing a table interactively
// and serving the HTTP API. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - compute: Print totals, center of gravity and the repositioning hint
//   - render: Generate SVG, JSON, PDF or PNG overlays and beam diagrams
//   - edit: Interactive table editor that recomputes after every edit
//   - serve: HTTP API with per-session tables
//   - config: Show the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rendered overlay.svg (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Log Hooks
// =============================================================================

// logHooks writes observability events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnCompute(_ context.Context, rows, complete int, direction string, d time.Duration) {
	h.logger.Debug("computed", "rows", rows, "complete", complete, "direction", direction, "duration", d)
}

func (h logHooks) OnIncomplete(_ context.Context, rows int) {
	h.logger.Debug("incomplete input", "rows", rows)
}

func (h logHooks) OnRejected(_ context.Context, code string) {
	h.logger.Debug("input rejected", "code", code)
}

func (h logHooks) OnRenderStart(_ context.Context, vizType, format string) {
	h.logger.Debug("render started", "type", vizType, "format", format)
}

func (h logHooks) OnRenderComplete(_ context.Context, vizType, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "type", vizType, "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "type", vizType, "format", format, "bytes", size, "duration", d)
}

func (h logHooks) OnSessionCreate(_ context.Context, id string) {
	h.logger.Debug("session created", "id", id)
}

func (h logHooks) OnSessionEdit(_ context.Context, id, op string, rows int) {
	h.logger.Debug("session edited", "id", id, "op", op, "rows", rows)
}

func (h logHooks) OnSessionMiss(_ context.Context, id string) {
	h.logger.Debug("session miss", "id", id)
}

func (h logHooks) OnSessionDelete(_ context.Context, id string) {
	h.logger.Debug("session deleted", "id", id)
}

func (h logHooks) OnSessionCleanup(_ context.Context, removed int) {
	if removed > 0 {
		h.logger.Info("expired sessions removed", "count", removed)
	}
}

func (h logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("request", "method", method, "route", route, "status", status, "duration", d)
}
