package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/mealplan/internal/backup"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/storage"
	"github.com/julianstephens/mealplan/internal/storage/mongo"
	"github.com/julianstephens/mealplan/internal/storage/postgres"
	"github.com/julianstephens/mealplan/internal/storage/sqlite"
)

// ErrBackupsUnsupported is returned by backup commands on server-backed stores.
var ErrBackupsUnsupported = errors.New("backups are only supported for SQLite storage")

type Context struct {
	Store storage.Provider
	// ConfigDir holds logs and the server lockfile.
	ConfigDir string

	// Out and In default to stdout and stdin.
	Out io.Writer
	In  io.Reader
}

// Stdout returns the writer commands print to.
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Printf writes formatted output to Stdout.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

// Println writes a line to Stdout.
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Confirm asks a yes/no question and reports whether the answer was yes.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// SQLitePath returns the database file of a SQLite store.
func (c *Context) SQLitePath() (string, bool) {
	s, ok := c.Store.(*sqlite.Store)
	if !ok {
		return "", false
	}
	return s.GetConfigPath(), true
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path, ok := c.SQLitePath()
	if !ok {
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// IsPostgres reports whether config is a PostgreSQL connection string.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://") ||
		strings.Contains(config, "host=")
}

// IsMongo reports whether config is a MongoDB connection URI.
func IsMongo(config string) bool {
	return strings.HasPrefix(config, "mongodb://") || strings.HasPrefix(config, "mongodb+srv://")
}

// OpenStore picks the storage backend for config: a PostgreSQL or MongoDB
// connection string, or otherwise a SQLite file path. Embedded PostgreSQL
// passwords are refused unless fromKeyring is set.
func OpenStore(config string, fromKeyring bool) (storage.Provider, error) {
	switch {
	case IsPostgres(config):
		if valid, err := postgres.ValidateConnString(config); !valid {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
			if !fromKeyring {
				return nil, fmt.Errorf("%w: use the OS keyring ('mealplan keyring set'), environment variables or .pgpass instead", err)
			}
		}
		return postgres.New(config), nil
	case IsMongo(config):
		return mongo.New(config), nil
	default:
		path, err := ExpandPath(config)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
}

// ConfigDirFor returns the directory for logs and lockfiles: next to the
// database for SQLite, ~/.config/mealplan otherwise.
func ConfigDirFor(config string) (string, error) {
	if !IsPostgres(config) && !IsMongo(config) {
		path, err := ExpandPath(config)
		if err != nil {
			return "", err
		}
		return filepath.Dir(path), nil
	}
	return ExpandPath(filepath.Dir(constants.DefaultConfigPath))
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
