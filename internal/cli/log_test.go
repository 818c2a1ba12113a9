package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "mye", "floorplan.log")
	logger, closer, err := openLogFile(path, log.InfoLevel)
	if err != nil {
		t.Fatalf("openLogFile: %v", err)
	}
	logger.Info("first")
	closer.Close()

	// A second open appends.
	logger, closer, err = openLogFile(path, log.InfoLevel)
	if err != nil {
		t.Fatalf("openLogFile again: %v", err)
	}
	logger.Info("second")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("log file = %q, want both lines", data)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Checked 2 designs")

	if !strings.Contains(buf.String(), "Checked 2 designs (") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}
	logger := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), logger)) != logger {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(&buf, log.DebugLevel)}

	h.OnEdit("place", 1, nil)
	h.OnEdit("place", 0, errors.New("occupied"))
	h.OnSave(context.Background(), "file", "mye/top", 4, time.Millisecond, nil)
	h.OnLoad(context.Background(), "redis", "mye/top", 0, time.Millisecond, errors.New("connection refused"))

	out := buf.String()
	for _, want := range []string{"op=place", "edit rejected", "store save", "blocks=4", "WARN", "store load failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(&buf, log.InfoLevel)}
	h.OnEdit("delete", 1, nil)
	h.OnLoad(context.Background(), "file", "mye/top", 3, time.Millisecond, nil)
	if buf.Len() != 0 {
		t.Errorf("successful events logged at info level: %q", buf.String())
	}
}
