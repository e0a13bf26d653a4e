package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/electionlab/groundwork/pkg/ports"
)

// FileLocker implements ports.Locker with an exclusive lock file. Good
// enough for the normal case: one operator, one host.
type FileLocker struct {
	Dir string
}

var _ ports.Locker = (*FileLocker)(nil)

// NewFileLocker creates a file locker rooted at dir.
func NewFileLocker(dir string) *FileLocker {
	return &FileLocker{Dir: dir}
}

// Lock acquires the lock via O_CREATE|O_EXCL. A lock file older than the
// TTL is treated as left behind by a crashed run and broken.
func (l *FileLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure lock directory: %w", err)
	}
	path := filepath.Join(l.Dir, key+".lock")

	acquire := func() (ports.UnlockFunc, error) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(f, "pid=%d started=%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
		_ = f.Close()
		return func(ctx context.Context) error {
			return os.Remove(path)
		}, nil
	}

	unlock, err := acquire()
	if err == nil {
		return unlock, nil
	}
	if !os.IsExist(err) {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	// Held. Break it only when it is stale.
	info, statErr := os.Stat(path)
	if statErr == nil && ttl > 0 && time.Since(info.ModTime()) > ttl {
		_ = os.Remove(path)
		if unlock, err := acquire(); err == nil {
			return unlock, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrLockHeld, path)
}
