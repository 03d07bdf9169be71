// Package logger owns the process-wide structured logger. Until Setup runs,
// every record is discarded.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	// StateDir is the gradebook state directory; logs go to StateDir/logs.
	StateDir string
	Debug    bool
}

var (
	mu      sync.RWMutex
	global  = discard()
	logFile *os.File
	logPath string
	session string
)

// Setup opens StateDir/logs/gradebook.log and installs a JSON logger that
// tags every record with a per-process session id. The returned cleanup
// closes the file and restores the discard logger.
func Setup(cfg Config) (func() error, error) {
	root := cfg.StateDir
	if root == "" {
		root = "."
	}

	dir := filepath.Join(filepath.Clean(root), "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		setDiscard()
		return nil, err
	}

	path := filepath.Join(dir, "gradebook.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		setDiscard()
		return nil, err
	}

	level := slog.LevelInfo
	addSource := false
	if cfg.Debug {
		level = slog.LevelDebug
		addSource = true
	}

	h := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})

	id := uuid.NewString()
	l := slog.New(h).With("session", id)

	mu.Lock()
	global = l
	logFile = f
	logPath = path
	session = id
	mu.Unlock()

	l.Debug("logger.initialized", "path", path)

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		logPath = ""
		session = ""
		global = discard()
		return cerr
	}

	return cleanup, nil
}

// L returns the current logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Path returns the log file path, or "" before Setup.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

// Session returns the id attached to every record of this process.
func Session() string {
	mu.RLock()
	defer mu.RUnlock()
	return session
}

// IsReady reports an error when Setup has not run.
func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if logFile == nil || logPath == "" {
		return errors.New("logger not initialized")
	}
	return nil
}

func setDiscard() {
	mu.Lock()
	defer mu.Unlock()
	global = discard()
	logFile = nil
	logPath = ""
	session = ""
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
