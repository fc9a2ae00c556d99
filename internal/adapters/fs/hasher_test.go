package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mockcode/internal/adapters/fs"
	"go.trai.ch/mockcode/internal/core/domain"
)

func computeIdentity(t *testing.T, label, root string, patterns ...string) domain.Identity {
	t.Helper()
	policy, err := domain.ParsePolicy(patterns)
	require.NoError(t, err)
	id, err := fs.NewHasher(fs.NewWalker()).ComputeIdentity(label, root, policy)
	require.NoError(t, err)
	return id
}

func TestHasher_ComputeIdentity(t *testing.T) {
	t.Parallel()

	base := map[string]string{
		"file1.txt":     "hello\n",
		"sub/file2.txt": "world\n",
	}

	t.Run("independent of creation order and timestamps", func(t *testing.T) {
		t.Parallel()

		first := t.TempDir()
		writeFiles(t, first, map[string]string{"file1.txt": "hello\n"})
		writeFiles(t, first, map[string]string{"sub/file2.txt": "world\n"})

		second := t.TempDir()
		writeFiles(t, second, map[string]string{"sub/file2.txt": "world\n"})
		writeFiles(t, second, map[string]string{"file1.txt": "hello\n"})
		past := time.Now().Add(-48 * time.Hour)
		require.NoError(t, os.Chtimes(filepath.Join(second, "file1.txt"), past, past))
		require.NoError(t, os.Chmod(filepath.Join(second, "file1.txt"), 0o400))

		assert.Equal(t, computeIdentity(t, "diff", first), computeIdentity(t, "diff", second))
	})

	t.Run("sensitive to content", func(t *testing.T) {
		t.Parallel()

		a := t.TempDir()
		writeFiles(t, a, base)
		b := t.TempDir()
		writeFiles(t, b, base)
		writeFiles(t, b, map[string]string{"file1.txt": "hello!\n"})

		assert.NotEqual(t, computeIdentity(t, "diff", a), computeIdentity(t, "diff", b))
	})

	t.Run("sensitive to path", func(t *testing.T) {
		t.Parallel()

		a := t.TempDir()
		writeFiles(t, a, map[string]string{"x.txt": "same"})
		b := t.TempDir()
		writeFiles(t, b, map[string]string{"y.txt": "same"})

		assert.NotEqual(t, computeIdentity(t, "diff", a), computeIdentity(t, "diff", b))
	})

	t.Run("file boundaries are unambiguous", func(t *testing.T) {
		t.Parallel()

		a := t.TempDir()
		writeFiles(t, a, map[string]string{"a": "bc", "d": ""})
		b := t.TempDir()
		writeFiles(t, b, map[string]string{"a": "b", "d": "c"})

		assert.NotEqual(t, computeIdentity(t, "diff", a), computeIdentity(t, "diff", b))
	})

	t.Run("sensitive to label", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFiles(t, root, base)

		assert.NotEqual(t, computeIdentity(t, "diff", root), computeIdentity(t, "cp", root))
	})

	t.Run("ignored files do not contribute", func(t *testing.T) {
		t.Parallel()

		a := t.TempDir()
		writeFiles(t, a, base)
		writeFiles(t, a, map[string]string{"_aiidasubmit.sh": "cd /tmp/abc123"})
		b := t.TempDir()
		writeFiles(t, b, base)
		writeFiles(t, b, map[string]string{"_aiidasubmit.sh": "cd /tmp/xyz789"})

		assert.Equal(t,
			computeIdentity(t, "diff", a, domain.DefaultSubmitScript),
			computeIdentity(t, "diff", b, domain.DefaultSubmitScript),
		)
		assert.NotEqual(t, computeIdentity(t, "diff", a), computeIdentity(t, "diff", b))
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewHasher(fs.NewWalker()).ComputeIdentity("diff", filepath.Join(t.TempDir(), "nope"), nil)
		require.ErrorIs(t, err, domain.ErrWorkDirNotFound)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestHasher_ComputeIdentity_Unreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files regardless of permissions")
	}
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"secret.in": "x"})
	require.NoError(t, os.Chmod(filepath.Join(root, "secret.in"), 0))

	_, err := fs.NewHasher(fs.NewWalker()).ComputeIdentity("diff", root, nil)
	require.ErrorIs(t, err, domain.ErrInputUnreadable)
	require.ErrorIs(t, err, os.ErrPermission)
}
