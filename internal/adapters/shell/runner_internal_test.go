package shell_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mockcode/internal/adapters/shell"
)

func TestResolveEnvironment(t *testing.T) {
	t.Parallel()

	sys := []string{"PATH=/usr/bin", "HOME=/home/u", "SECRET=x", "MALFORMED"}

	t.Run("inherits everything by default", func(t *testing.T) {
		t.Parallel()
		env := shell.ResolveEnvironment(sys, map[string]string{"OMP_NUM_THREADS": "1"}, false)
		assert.ElementsMatch(t, []string{"PATH=/usr/bin", "HOME=/home/u", "SECRET=x", "OMP_NUM_THREADS=1"}, env)
	})

	t.Run("hermetic keeps the allow-list", func(t *testing.T) {
		t.Parallel()
		env := shell.ResolveEnvironment(sys, nil, true)
		assert.ElementsMatch(t, []string{"PATH=/usr/bin", "HOME=/home/u"}, env)
	})

	t.Run("path override is prepended", func(t *testing.T) {
		t.Parallel()
		env := shell.ResolveEnvironment(sys, map[string]string{"PATH": "/opt/code/bin"}, true)
		assert.Contains(t, env, "PATH=/opt/code/bin"+string(os.PathListSeparator)+"/usr/bin")
	})
}

func TestLookPathIn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exe := filepath.Join(dir, "fakecode")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o700)) //nolint:gosec // must be executable
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notexec"), []byte("x"), 0o600))

	got, err := shell.LookPathIn("fakecode", []string{"PATH=" + dir})
	require.NoError(t, err)
	assert.Equal(t, exe, got)

	_, err = shell.LookPathIn("notexec", []string{"PATH=" + dir})
	require.Error(t, err)

	_, err = shell.LookPathIn("fakecode", nil)
	require.Error(t, err)
}
