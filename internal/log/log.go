// Package log provides centralised audit logging for devise operations.
// Logs are stored in ~/.devise/log/devise-log.db and track CLI commands
// and MCP tool invocations across workspaces.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("hierarchy:create_page", "create").
//		Entity("page", p.ID).
//		Detail("notebook", p.NotebookID).
//		Write(err)
//
// The source parameter follows the format "{component}:{operation}" for
// core operations or "mcp:{tool}" for MCP tools. Examples:
// "hierarchy:delete_notebook", "session:restore", "mcp:search".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g. "hierarchy:create_page", "mcp:search"
	Action string // verb: create, update, delete, open, restore, ...
	Kind   string // entity kind: notebook, section, page, link, tab
	ID     string // entity id the operation targeted

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API. Create with [Event],
// chain methods to set fields, then call [Builder.Write].
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Entity sets the entity kind and id the operation targets.
func (b *Builder) Entity(kind, id string) *Builder {
	b.entry.Kind = kind
	b.entry.ID = id
	return b
}

// Detail adds a key-value pair to the log entry's detail map. Can be
// called multiple times.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure
// from err. This is the standard way to complete an entry:
//
//	tree, err := svc.GetHierarchy(ctx, id)
//	log.Event("hierarchy:get", "read").Entity("notebook", id).Write(err)
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort
// logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetWorkspace sets the workspace identifier for subsequent log entries.
// The dir should be the absolute path to the .devise directory.
func SetWorkspace(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.workspace = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
