package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/logger"
)

// ErrAlreadyRunning is returned by AcquireLock while another live server
// holds the lockfile.
var ErrAlreadyRunning = errors.New("mealplan server is already running")

// findProcessFunc allows mocking ps.FindProcess in tests
var findProcessFunc = ps.FindProcess

// Lock is a held server lockfile.
type Lock struct {
	path string
	pid  int
}

// LockfilePath returns the lockfile location inside configDir.
func LockfilePath(configDir string) string {
	return filepath.Join(configDir, constants.ServerLockfileName)
}

// AcquireLock writes "addr|pid" to the lockfile in configDir. An existing
// lockfile is replaced when it is malformed or its process is gone.
func AcquireLock(configDir, addr string) (*Lock, error) {
	path := LockfilePath(configDir)

	holderAddr, holderPID, err := readLockfile(path)
	switch {
	case err == nil:
		if holderPID != os.Getpid() && processAlive(holderPID) {
			return nil, fmt.Errorf("%w at %s (pid %d)", ErrAlreadyRunning, holderAddr, holderPID)
		}
		logger.Info("Replacing stale server lockfile", "path", path, "pid", holderPID)
	case errors.Is(err, os.ErrNotExist):
	default:
		logger.Warn("Ignoring unreadable server lockfile", "path", path, "error", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	pid := os.Getpid()
	content := fmt.Sprintf("%s|%d", addr, pid)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}

	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lockfile if it still belongs to this process.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	_, pid, err := readLockfile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if pid != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

func readLockfile(path string) (string, int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return "", 0, errors.New("lockfile is malformed")
	}

	addr := strings.TrimSpace(parts[0])
	if addr == "" {
		return "", 0, errors.New("address in lockfile is empty")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || pid <= 0 {
		return "", 0, errors.New("invalid process ID in lockfile")
	}

	return addr, pid, nil
}

func processAlive(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
