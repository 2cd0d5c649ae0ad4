// Package lock keeps a second standup process from writing the same store.
// The lockfile holds "<pid>|<executable>" of its owner; a lockfile whose owner
// is no longer running is stale and gets taken over.
package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/logger"
)

var ErrLocked = errors.New("another standup process is using this data")

var (
	findProcessFunc = ps.FindProcess
	currentPID      = os.Getpid
)

type Lock struct {
	path string
	pid  int
}

// Path returns the lockfile location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, constants.LockfileName)
}

// Acquire takes the lock in dir, replacing a stale lockfile. It returns an
// error wrapping ErrLocked when a live process holds it.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := Path(dir)
	pid := currentPID()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d|%s\n", pid, executableName())
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			logger.Debug("Lock acquired", "path", path, "pid", pid)
			return &Lock{path: path, pid: pid}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		holder, live := owner(path)
		if live {
			return nil, fmt.Errorf("%w (pid %d holds %s)", ErrLocked, holder, path)
		}
		logger.Warn("Removing stale lockfile", "path", path, "pid", holder)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: lockfile %s keeps reappearing", ErrLocked, path)
}

// owner reads the lockfile and reports whether its pid belongs to a running
// standup process. Unreadable or malformed lockfiles are treated as stale.
func owner(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pidStr, _, _ := strings.Cut(strings.TrimSpace(string(content)), "|")
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, false
	}

	p, err := findProcessFunc(pid)
	if err != nil || p == nil {
		return pid, false
	}
	// The pid may have been reused by an unrelated program.
	return pid, strings.HasPrefix(p.Executable(), constants.AppName)
}

func executableName() string {
	exe, err := os.Executable()
	if err != nil {
		return constants.AppName
	}
	return filepath.Base(exe)
}

// Release removes the lockfile if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	holder, _ := owner(l.path)
	if holder != l.pid {
		logger.Warn("Lockfile owned by another process, leaving it", "path", l.path, "pid", holder)
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	logger.Debug("Lock released", "path", l.path)
	return nil
}
