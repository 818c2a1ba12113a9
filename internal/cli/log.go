package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
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

// openLogFile opens path for appending, creating parent directories, and
// returns a logger writing to it at level.
func openLogFile(path string, level log.Level) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, level), f, nil
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Checked 3 designs (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Hooks
// =============================================================================

// logHooks writes engine and store events to a logger at debug level.
// Failed store calls are logged as warnings.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnEdit(op string, affected int, err error) {
	if err != nil {
		h.logger.Debug("edit rejected", "op", op, "err", err)
		return
	}
	h.logger.Debug("edit", "op", op, "affected", affected)
}

func (h *logHooks) OnLoad(_ context.Context, backend, key string, blocks int, d time.Duration, err error) {
	h.logStore("load", backend, key, blocks, d, err)
}

func (h *logHooks) OnSave(_ context.Context, backend, key string, blocks int, d time.Duration, err error) {
	h.logStore("save", backend, key, blocks, d, err)
}

func (h *logHooks) logStore(op, backend, key string, blocks int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("store "+op+" failed", "backend", backend, "key", key, "err", err)
		return
	}
	h.logger.Debug("store "+op, "backend", backend, "key", key, "blocks", blocks, "duration", d.Round(time.Microsecond))
}
