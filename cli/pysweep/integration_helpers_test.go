//go:build integration

package main

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// neutralizeToolEnv points tool discovery away from the host so a test run
// never touches caches outside its temp directories.
func neutralizeToolEnv(t *testing.T, tempDir string) {
	t.Helper()
	t.Setenv("PATH", "")
	t.Setenv("CONDA_EXE", "")
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg-config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tempDir, "xdg-cache"))
}

// writeTempConfig writes a minimal config YAML to tempDir and returns its
// path. Extra settings lines can be appended via extraSettings (indented two
// spaces, newline-terminated).
func writeTempConfig(t *testing.T, tempDir, extraSettings string) string {
	t.Helper()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	yamlContent := "settings:\n" +
		"  log_level: info\n" +
		"  output_format: text\n" +
		extraSettings
	require.NoError(t, os.WriteFile(cfgPath, []byte(yamlContent), 0o600))
	return cfgPath
}

// createPythonWorkspace builds a workspace with the cache clutter a Python
// project accumulates: two __pycache__ directories, a stray compiled module
// and a pytest cache, plus a source file that must survive the sweep.
func createPythonWorkspace(t *testing.T, root string) string {
	t.Helper()
	ws := filepath.Join(root, "workspace")
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "pkg", "__pycache__"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "lib", "sub", "__pycache__"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(ws, ".pytest_cache", "v", "cache"), 0o755))

	files := map[string]string{
		filepath.Join(ws, "pkg", "mod.py"):                                     "x = 1\n",
		filepath.Join(ws, "pkg", "__pycache__", "mod.cpython-312.pyc"):         "bytecode",
		filepath.Join(ws, "lib", "sub", "__pycache__", "util.cpython-312.pyc"): "bytecode",
		filepath.Join(ws, "stray.pyo"):                                         "old bytecode",
		filepath.Join(ws, ".pytest_cache", "v", "cache", "lastfailed"):         "{}",
	}
	for path, content := range files {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return ws
}

// assertWorkspaceClean fails when any cache artifact survived a sweep of ws.
func assertWorkspaceClean(t *testing.T, ws string) {
	t.Helper()
	walkErr := filepath.WalkDir(ws, func(path string, entry fs.DirEntry, err error) error {
		require.NoError(t, err)
		name := entry.Name()
		assert.NotEqual(t, "__pycache__", name, "surviving cache dir at %s", path)
		if !entry.IsDir() {
			ext := filepath.Ext(name)
			assert.NotContains(t, []string{".pyc", ".pyo", ".pyd"}, ext, "surviving compiled module at %s", path)
		}
		return nil
	})
	require.NoError(t, walkErr)

	_, err := os.Stat(filepath.Join(ws, ".pytest_cache"))
	assert.True(t, os.IsNotExist(err), "pytest cache should be removed")

	// Real project files stay untouched.
	_, err = os.Stat(filepath.Join(ws, "pkg", "mod.py"))
	assert.NoError(t, err, "source files must survive the sweep")
}

// runCLI executes the root command with args, capturing stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	cmd := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	_ = w.Close()
	os.Stdout = oldStdout

	var buf strings.Builder
	_, _ = io.Copy(&buf, r)
	return buf.String(), err
}
