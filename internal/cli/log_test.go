package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	time.Sleep(10 * time.Millisecond)

	prog.done("test completed")

	output := buf.String()
	if output == "" {
		t.Error("progress.done() should produce output")
	}

	if !bytes.Contains(buf.Bytes(), []byte("test completed")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	ctx := context.Background()

	logger := loggerFromContext(ctx)
	if logger == nil {
		t.Error("loggerFromContext should return default logger when none set")
	}
}

func TestLoggerFromContextWithValue(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	customLogger := newLogger(&buf, log.InfoLevel)

	ctx = withLogger(ctx, customLogger)
	retrieved := loggerFromContext(ctx)

	if retrieved != customLogger {
		t.Error("loggerFromContext should return the custom logger")
	}

	retrieved.Info("test")
	if buf.Len() == 0 {
		t.Error("custom logger should write to buffer")
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		level log.Level
		fire  func(logHooks)
		want  string
	}{
		{"compute", log.DebugLevel, func(h logHooks) { h.OnCompute(ctx, 3, 2, "left", time.Millisecond) }, "direction=left"},
		{"rejected", log.DebugLevel, func(h logHooks) { h.OnRejected(ctx, "INVALID_WEIGHT") }, "INVALID_WEIGHT"},
		{"render failed", log.DebugLevel, func(h logHooks) {
			h.OnRenderComplete(ctx, "overlay", "png", 0, time.Millisecond, errors.New("rsvg-convert not found"))
		}, "render failed"},
		{"session edit", log.DebugLevel, func(h logHooks) { h.OnSessionEdit(ctx, "abc", "append", 4) }, "op=append"},
		{"cleanup at info", log.InfoLevel, func(h logHooks) { h.OnSessionCleanup(ctx, 2) }, "count=2"},
		{"request at info", log.InfoLevel, func(h logHooks) {
			h.OnResponse(ctx, "GET", "/api/v1/sessions/{id}", 200, time.Millisecond)
		}, "status=200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.fire(logHooks{logger: newLogger(&buf, tt.level)})
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{logger: newLogger(&buf, log.InfoLevel)}
	h.OnCompute(context.Background(), 1, 1, "right", time.Millisecond)
	h.OnSessionCleanup(context.Background(), 0)
	if buf.Len() != 0 {
		t.Errorf("unexpected output at info level: %q", buf.String())
	}
}
