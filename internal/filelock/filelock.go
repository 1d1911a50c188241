// Package filelock provides exclusive, timeout-bounded advisory locking
// over a sidecar ".lock" file, plus an atomic read-modify-write helper.
// It is a direct generalization of the fileLock/WithTicketLock pattern
// used for cache and vault persistence in this codebase's file stores.
package filelock

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/natefinch/atomic"
)

// DefaultTimeout is the conventional lock-acquisition timeout. WithLock and
// ReadModifyWrite do not apply it themselves; callers pass their timeout.
const DefaultTimeout = 10 * time.Second

const retryInterval = 10 * time.Millisecond

// ErrTimeout is returned when a lock cannot be acquired before the
// deadline. Callers (cache, vault) treat this as "skip persistence and
// log", per the concurrency model's file-lock timeout policy.
var ErrTimeout = errors.New("filelock: timed out acquiring lock")

type lock struct {
	file *os.File
}

func acquire(path string, timeout time.Duration) (*lock, error) {
	lockPath := path + ".lock"
	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("filelock: failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		if flockErr := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); flockErr == nil {
			return &lock{file: file}, nil
		}
		if time.Now().After(deadline) {
			_ = file.Close()
			return nil, ErrTimeout
		}
		time.Sleep(retryInterval)
	}
}

func (l *lock) release() {
	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	_ = l.file.Close()
}

// WithLock acquires an exclusive lock on path+".lock" (creating it if
// needed), runs fn, and always releases the lock before returning.
func WithLock(path string, timeout time.Duration, fn func() error) error {
	l, err := acquire(path, timeout)
	if err != nil {
		return err
	}
	defer l.release()
	return fn()
}

// ReadModifyWrite acquires the lock on path, reads its current content
// (nil, not an error, if the file does not yet exist), passes it to
// handler, and atomically rewrites the file with handler's returned
// content. A nil returned content (with nil error) performs no write.
func ReadModifyWrite(path string, timeout time.Duration, handler func(content []byte) ([]byte, error)) error {
	return WithLock(path, timeout, func() error {
		content, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("filelock: failed to read %s: %w", path, err)
		}

		newContent, err := handler(content)
		if err != nil {
			return err
		}
		if newContent == nil {
			return nil
		}

		if dir := dirOf(path); dir != "" {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return fmt.Errorf("filelock: failed to create directory %s: %w", dir, err)
			}
		}
		return atomic.WriteFile(path, bytes.NewReader(newContent))
	})
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return ""
}
