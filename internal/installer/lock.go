package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	lockFileName = ".caller-install.lock"

	// staleLockThreshold is the maximum age of a lock before it is treated
	// as a leftover from a crashed install and reclaimed.
	staleLockThreshold = 10 * time.Minute
)

// ErrInstallLocked means another install holds the lock for this directory.
var ErrInstallLocked = errors.New("another install appears to be running (stale .caller-install.lock can be removed by hand)")

// installLock serializes installs in a working directory. Two concurrent
// installs would both stage to the same ./lk path and corrupt each other's
// download, so the second one must fail fast instead.
type installLock struct {
	path string
	file *os.File
}

// acquireInstallLock attempts to take the install lock for workDir.
// O_CREATE|O_EXCL makes creation atomic; a lock older than the stale
// threshold is removed and acquisition retried once.
func acquireInstallLock(workDir string) (*installLock, error) {
	lockPath := filepath.Join(workDir, lockFileName)

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if stale, _ := isLockStale(lockPath); !stale {
			return nil, ErrInstallLocked
		}
		os.Remove(lockPath)
		file, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err != nil {
			return nil, ErrInstallLocked
		}
	}

	// Lock metadata for whoever finds a leftover lock
	lockData := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock data: %w", err)
	}

	return &installLock{path: lockPath, file: file}, nil
}

// release removes the lock. Safe to call more than once.
func (l *installLock) release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
	}

	return nil
}

// isLockStale checks if a lock file is older than the stale lock threshold.
func isLockStale(lockPath string) (bool, error) {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false, err
	}

	return time.Since(info.ModTime()) > staleLockThreshold, nil
}
