package log

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Use temp directory for test database
	tmpDir := t.TempDir()
	origDBPath := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	defer func() { dbPathFunc = origDBPath }()

	t.Run("open and close", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		assert.FileExists(t, DBPath())
	})

	t.Run("fluent entry", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetWorkspace("/test/workspace/.devise")

		Event("hierarchy:create_page", "create").
			Entity("page", "page-123").
			Detail("notebook", "nb-1").
			Write(nil)

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var source, action, kind, entityID, detail string
		var success int
		err = db.QueryRow(`SELECT source, action, kind, entity_id, success, detail FROM log ORDER BY id DESC LIMIT 1`).
			Scan(&source, &action, &kind, &entityID, &success, &detail)
		require.NoError(t, err)
		assert.Equal(t, "hierarchy:create_page", source)
		assert.Equal(t, "create", action)
		assert.Equal(t, "page", kind)
		assert.Equal(t, "page-123", entityID)
		assert.Equal(t, 1, success)
		assert.Contains(t, detail, "nb-1")
	})

	t.Run("error entry", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		Event("graph:create_link", "link").Write(errors.New("page not found"))

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var success int
		var errMsg string
		err = db.QueryRow(`SELECT success, error FROM log ORDER BY id DESC LIMIT 1`).
			Scan(&success, &errMsg)
		require.NoError(t, err)
		assert.Equal(t, 0, success)
		assert.Equal(t, "page not found", errMsg)
	})

	t.Run("uninitialised logger is a no-op", func(t *testing.T) {
		Close()
		assert.NotPanics(t, func() {
			Event("session:open", "open").Entity("tab", "t1").Write(nil)
		})
	})
}

func TestWorkspaceHash(t *testing.T) {
	a := hash("/one/.devise")
	b := hash("/two/.devise")

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, hash("/one/.devise"))
}
