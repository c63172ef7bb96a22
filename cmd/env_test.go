// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full
// stack: command parsing -> workspace wiring -> services -> SQLite. Each
// test runs the compiled devise binary against a temp workspace, which is
// how the tool is actually used: the tab session, for instance, only
// proves itself when it survives separate process invocations.
//
// Internal packages carry their own unit tests where the behaviour is
// subtle (ordering, eviction, cascades); the tests here cover the wiring
// and output surface on top of that.

package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the devise binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "devise-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "devise"
		if os.PathSeparator == '\\' {
			binaryName = "devise.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	binary string
}

// newTestEnv creates a temporary directory with an initialised devise
// workspace. HOME is redirected to a second temp directory so the global
// config and audit log of the developer running the tests stay untouched.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		t:      t,
		dir:    t.TempDir(),
		home:   t.TempDir(),
		binary: buildBinary(t),
	}
	env.run("init")
	return env
}

// run executes devise with the given args and returns stdout.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("devise %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes devise and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "HOME="+e.home)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runStdin executes devise with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "HOME="+e.home)
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("devise %v failed: %v\noutput: %s", args, err, out)
	}
	return string(out)
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// id extracts the leading id from "id  title" output lines.
func (e *testEnv) id(output string) string {
	e.t.Helper()
	fields := strings.Fields(output)
	if len(fields) == 0 {
		e.t.Fatalf("no id in output: %q", output)
	}
	return fields[0]
}

// notebook creates a notebook and returns its id.
func (e *testEnv) notebook(title string) string {
	e.t.Helper()
	return e.id(e.run("notebook", "create", title))
}

// page creates a page in the notebook root and returns its id.
func (e *testEnv) page(notebookID, title string, extra ...string) string {
	e.t.Helper()
	args := append([]string{"page", "create", notebookID, title}, extra...)
	return e.id(e.run(args...))
}
