package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("basic init", func(t *testing.T) {
		dir := t.TempDir()
		binary := buildBinary(t)

		cmd := exec.Command(binary, "init")
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "init failed: %s", out)

		assert.DirExists(t, filepath.Join(dir, ".devise"))
		assert.FileExists(t, filepath.Join(dir, ".devise", "devise.db"))
		// workspace.db is created lazily on first workspace command
		assert.NoFileExists(t, filepath.Join(dir, ".devise", "config.yaml"))
	})

	t.Run("gitignore covers ephemeral state", func(t *testing.T) {
		dir := t.TempDir()
		binary := buildBinary(t)

		cmd := exec.Command(binary, "init")
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "init failed: %s", out)

		gitignore, err := os.ReadFile(filepath.Join(dir, ".devise", ".gitignore"))
		require.NoError(t, err)
		assert.Contains(t, string(gitignore), "workspace.db")
		assert.Contains(t, string(gitignore), "config.yaml")
	})
}

func TestInit_AlreadyInitialised(t *testing.T) {
	dir := t.TempDir()
	binary := buildBinary(t)

	cmd := exec.Command(binary, "init")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "first init failed: %s", out)

	cmd = exec.Command(binary, "init")
	cmd.Dir = dir
	_, err = cmd.CombinedOutput()
	assert.Error(t, err)
}

func TestInit_Force(t *testing.T) {
	env := newTestEnv(t)

	nb := env.notebook("Doomed")
	out := env.run("notebook", "ls")
	env.contains(out, "Doomed")

	// Force reinit discards existing content
	env.run("init", "--force")
	out = env.run("notebook", "ls")
	assert.NotContains(t, out, nb)
}

func TestInit_Dir(t *testing.T) {
	dir := t.TempDir()
	targetDir := t.TempDir()
	binary := buildBinary(t)

	cmd := exec.Command(binary, "init", "--dir", targetDir)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "init --dir failed: %s", out)

	assert.FileExists(t, filepath.Join(targetDir, ".devise", "devise.db"))
	assert.NoFileExists(t, filepath.Join(dir, ".devise", "devise.db"))
}

func TestCommandsRequireWorkspace(t *testing.T) {
	dir := t.TempDir()
	binary := buildBinary(t)

	cmd := exec.Command(binary, "notebook", "ls")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(out), "devise init")
}
