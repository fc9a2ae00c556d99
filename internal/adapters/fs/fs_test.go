package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mockcode/internal/adapters/fs"
	"go.trai.ch/mockcode/internal/core/domain"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
	}
}

func TestWalker_WalkFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"README.md":          "# Readme",
		"src/main.f90":       "program main",
		".hidden/config":     "x",
		"deep/a/b/c/out.dat": "1 2 3",
	})
	require.NoError(t, os.Symlink(filepath.Join(root, "README.md"), filepath.Join(root, "link.md")))

	var got []string
	for rel, err := range fs.NewWalker().WalkFiles(root) {
		require.NoError(t, err)
		got = append(got, rel)
	}

	assert.ElementsMatch(t, []string{
		"README.md",
		"src/main.f90",
		".hidden/config",
		"deep/a/b/c/out.dat",
	}, got)
}

func TestWalker_WalkFiles_MissingRoot(t *testing.T) {
	t.Parallel()

	var errs int
	for _, err := range fs.NewWalker().WalkFiles(filepath.Join(t.TempDir(), "missing")) {
		if err != nil {
			errs++
		}
	}
	assert.Equal(t, 1, errs)
}

func TestCollector_CollectOutputs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"file1.txt":       "a",
		"aiida.out":       "output",
		"_aiidasubmit.sh": "#!/bin/bash",
		"out/b.txt":       "bb",
	})

	policy := domain.MustParsePolicy("_aiidasubmit.sh")
	files, err := fs.NewCollector(fs.NewWalker()).CollectOutputs(root, policy)
	require.NoError(t, err)

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"aiida.out", "file1.txt", "out/b.txt"}, paths)
	assert.Equal(t, int64(2), files[2].Size)
	assert.Equal(t, filepath.Join(root, "out", "b.txt"), files[2].Source)
	assert.Equal(t, os.FileMode(domain.PrivateFilePerm), files[2].Mode)
}
