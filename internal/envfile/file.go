package envfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/renameio/v2"
)

const (
	defaultFileMode = 0o644

	maxLockRetries = 50
	lockRetryDelay = 20 * time.Millisecond
)

// ErrLocked is returned when the env file lock could not be acquired.
var ErrLocked = errors.New("env file is locked by another process")

// Entry is one KEY=VALUE line.
type Entry struct {
	Key   string
	Value string
}

// FileSink writes entries into an env file.
type FileSink struct {
	path string
}

var _ Sink = (*FileSink)(nil)

// NewFileSink returns a sink for the env file at path. The file and its
// parent directory are created on first write.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the env file location.
func (s *FileSink) Path() string {
	return s.path
}

// Set writes key=value. If a line for key exists it is replaced in place and
// any later duplicates are dropped; otherwise the line is appended.
func (s *FileSink) Set(_ context.Context, key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\n") {
		return fmt.Errorf("invalid env key %q", key)
	}
	if strings.Contains(value, "\n") {
		return fmt.Errorf("value for %s contains a newline", key)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create env file directory: %w", err)
	}

	return s.withLock(func() error {
		data, err := os.ReadFile(s.path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read env file %s: %w", s.path, err)
		}

		updated := upsert(data, key, value)

		if err := renameio.WriteFile(s.path, updated, s.fileMode()); err != nil {
			return fmt.Errorf("failed to write env file %s: %w", s.path, err)
		}
		return nil
	})
}

// fileMode returns the permissions of the existing env file, or
// defaultFileMode when there is none yet.
func (s *FileSink) fileMode() os.FileMode {
	info, err := os.Stat(s.path)
	if err != nil {
		return defaultFileMode
	}
	return info.Mode().Perm()
}

// withLock executes fn while holding an exclusive lock on path + ".lock".
func (s *FileSink) withLock(fn func() error) error {
	lock := flock.New(s.path + ".lock")

	var locked bool
	var err error
	for i := 0; i < maxLockRetries; i++ {
		locked, err = lock.TryLock()
		if err != nil {
			return errors.Join(ErrLocked, err)
		}
		if locked {
			break
		}
		time.Sleep(lockRetryDelay)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLocked, s.path)
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}

// upsert returns data with key set to value.
func upsert(data []byte, key, value string) []byte {
	newLine := key + "=" + value
	prefix := key + "="

	var out bytes.Buffer
	found := false

	for _, line := range splitLines(data) {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			if found {
				continue
			}
			found = true
			line = newLine
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}

	if !found {
		out.WriteString(newLine)
		out.WriteByte('\n')
	}

	return out.Bytes()
}

// splitLines splits data into lines of any length. A trailing newline does
// not start another line and a trailing '\r' is dropped from each line.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Read parses the env file at path. Blank lines, comments and lines without
// '=' are skipped. A missing file yields no entries.
func Read(path string) ([]Entry, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	var entries []Entry
	for _, line := range splitLines(data) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			continue
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return entries, nil
}
