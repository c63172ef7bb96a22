// Package repo provides workspace initialisation and discovery for devise.
//
// A devise workspace is a .devise directory containing two SQLite databases:
// devise.db (notebooks, sections, pages, links - the durable content) and
// workspace.db (open tabs, search history - ephemeral client state).
//
// The discovery algorithm mirrors git's approach: starting from the current
// directory, walk up until a .devise directory containing the content
// database is found, or the filesystem root is reached.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jpl-au/devise/internal/store"
)

const (
	// Dir is the directory name for the devise workspace.
	Dir = ".devise"
	// DBFile is the content database filename.
	DBFile = "devise.db"
	// WorkspaceDBFile is the ephemeral state database filename.
	WorkspaceDBFile = "workspace.db"
)

// ErrNotInitialised is returned when no devise workspace is found.
var ErrNotInitialised = errors.New("devise not initialised (run 'devise init')")

// Init initialises a new devise workspace in dir (current directory when
// empty). The content database is created and its schema applied; the
// ephemeral database is created lazily on first use. With force, an
// existing content database is removed first.
func Init(force bool, dir string) error {
	if dir == "" {
		dir = "."
	}
	deviseDir := filepath.Join(dir, Dir)
	dbPath := filepath.Join(deviseDir, DBFile)

	if _, err := os.Stat(dbPath); err == nil {
		if !force {
			return fmt.Errorf("workspace %s already exists (use --force to reinitialise)", deviseDir)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
	}

	if err := os.MkdirAll(deviseDir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	// Only create on first init - a reinit should not overwrite and lose
	// custom entries.
	gitignore := filepath.Join(deviseDir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		content := `# devise - ignore ephemeral client state and local config
# devise.db is the source of truth and may be committed
workspace.db
workspace.db-wal
workspace.db-shm
config.yaml
`
		if err := os.WriteFile(gitignore, []byte(content), 0644); err != nil {
			return fmt.Errorf("write gitignore: %w", err)
		}
	}

	return nil
}

// Discover walks up the directory tree looking for the content database.
// Returns its full path if found.
func Discover() (string, error) {
	dir, err := DiscoverDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DBFile), nil
}

// DiscoverDir finds the .devise directory containing the content
// database, walking up the tree from the current working directory.
func DiscoverDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		deviseDir := filepath.Join(dir, Dir)
		if _, err := os.Stat(filepath.Join(deviseDir, DBFile)); err == nil {
			return deviseDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// WorkspaceDBPath returns the ephemeral database path within a
// discovered .devise directory.
func WorkspaceDBPath(deviseDir string) string {
	return filepath.Join(deviseDir, WorkspaceDBFile)
}
