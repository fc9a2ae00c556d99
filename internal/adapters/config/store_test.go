package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mockcode/internal/adapters/config"
	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
	return path
}

func TestOpen_EntryForms(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `
mock_code:
  diff: /usr/bin/diff
  diff-relative: ./diff
  abinit:
    executable: abinit
    policy: require
  legacy:
    executable: pw.x
    policy: auto-generate-entry
`)

	store, err := config.Open(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"abinit", "diff", "diff-relative", "legacy"}, store.Labels())

	cfg, ok := store.Get("diff")
	require.True(t, ok)
	assert.Equal(t, domain.CodeConfig{Executable: "/usr/bin/diff"}, cfg)

	cfg, ok = store.Get("abinit")
	require.True(t, ok)
	assert.Equal(t, domain.CodeConfig{Executable: "abinit", Policy: domain.PolicyRequire}, cfg)

	cfg, ok = store.Get("legacy")
	require.True(t, ok)
	assert.Equal(t, domain.PolicyGenerate, cfg.Policy)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "malformed yaml", content: "mock_code: [", want: domain.ErrConfigParseFailed.Error()},
		{name: "list entry", content: "mock_code:\n  diff: [a, b]\n", want: domain.ErrConfigParseFailed.Error()},
		{name: "unknown policy", content: "mock_code:\n  diff:\n    executable: diff\n    policy: maybe\n", want: domain.ErrInvalidPolicy.Error()},
		{name: "bad label", content: "mock_code:\n  a/b: diff\n", want: domain.ErrInvalidLabel.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Open(writeConfig(t, t.TempDir(), tt.content))
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestStore_PersistRoundTrip(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `
daemon:
  port: 8080
mock_code:
  diff: /usr/bin/diff
  stale: /bin/false
`)

	store, err := config.Open(path)
	require.NoError(t, err)

	store.Set("abinit", domain.CodeConfig{Executable: "abinit", Policy: domain.PolicyRequire})
	store.Unset("stale")
	require.NoError(t, store.Persist())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, map[string]any{"port": 8080}, raw["daemon"], "foreign sections survive")
	assert.Equal(t, map[string]any{
		"diff":   "/usr/bin/diff",
		"abinit": map[string]any{"executable": "abinit", "policy": "require"},
	}, raw["mock_code"])

	reopened, err := config.Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"abinit", "diff"}, reopened.Labels())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestLoader_OpenMissingFile(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).Times(1)

	path := filepath.Join(t.TempDir(), "nested", domain.ConfigFileName)
	store, err := config.NewLoader(log).Open(path)
	require.NoError(t, err)
	assert.Empty(t, store.Labels())

	store.Set("diff", domain.CodeConfig{Executable: "/usr/bin/diff"})
	require.NoError(t, store.Persist())
	assert.FileExists(t, path)
}

func TestLoader_Discover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeConfig(t, root, "mock_code: {}\n")
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, domain.DirPerm))

	loader := config.NewLoader(nil)

	found, err := loader.Discover(deep)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = loader.Discover(t.TempDir())
	if err != nil {
		require.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
	}
}
