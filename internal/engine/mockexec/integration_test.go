package mockexec_test

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mockcode/internal/adapters/cas"
	"go.trai.ch/mockcode/internal/adapters/config"
	"go.trai.ch/mockcode/internal/adapters/fs"
	"go.trai.ch/mockcode/internal/adapters/logger"
	"go.trai.ch/mockcode/internal/adapters/shell"
	"go.trai.ch/mockcode/internal/adapters/telemetry"
	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/core/ports"
	"go.trai.ch/mockcode/internal/engine/mockexec"
)

func newRealEngine(t *testing.T, dataDir string) *mockexec.Engine {
	t.Helper()
	return newRealEngineWithConfig(t, dataDir, nil)
}

func newRealEngineWithConfig(t *testing.T, dataDir string, cfg ports.ConfigStore) *mockexec.Engine {
	t.Helper()
	log := logger.New()
	log.SetOutput(io.Discard)
	walker := fs.NewWalker()
	return mockexec.NewEngine(
		fs.NewHasher(walker),
		fs.NewCollector(walker),
		cas.NewRepository(dataDir),
		shell.NewRunner(),
		cfg,
		telemetry.NewNoOpTracer(),
		log,
	)
}

func stageDiff(t *testing.T, extra map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"file1.txt":                "Lorem ipsum dolor..\n\n",
		"file2.txt":                "Please report to the ministry of silly walks.\n",
		domain.DefaultSubmitScript: "#!/bin/bash\ncd " + dir + "\n",
	}
	for k, v := range extra {
		files[k] = v
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func requireDiff(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("diff"); err != nil {
		t.Skip("diff not available")
	}
}

func TestEngine_Integration_MissThenHit(t *testing.T) {
	requireDiff(t)

	dataDir := t.TempDir()
	e := newRealEngine(t, dataDir)

	inv := diffInvocation(stageDiff(t, nil))
	inv.Command.StdoutName = "diff.out"
	inv.Options.CacheFailures = true

	first, err := e.Run(context.Background(), inv)
	require.NoError(t, err)
	assert.False(t, first.Hit())
	assert.True(t, first.Stored)
	assert.Equal(t, 1, first.ExitStatus)
	assert.Contains(t, string(first.Stdout), "> Please report to the ministry of silly walks.")

	// A fresh staging directory with different submit script content hashes the same.
	second := diffInvocation(stageDiff(t, nil))
	second.Command.StdoutName = "diff.out"
	second.Options.CacheFailures = true
	second.Options.ExecutableName = ""

	replayed, err := e.Run(context.Background(), second)
	require.NoError(t, err)
	assert.True(t, replayed.Hit())
	assert.Equal(t, domain.FixturePath(dataDir, "diff", first.Identity), replayed.CacheLocation)
	assert.Equal(t, first.ExitStatus, replayed.ExitStatus)
	assert.Equal(t, first.Stdout, replayed.Stdout)
	assert.Equal(t, first.OutputFiles, replayed.OutputFiles)

	out, err := os.ReadFile(filepath.Join(second.Dir, "diff.out"))
	require.NoError(t, err)
	assert.Equal(t, first.Stdout, out)
}

func TestEngine_Integration_RegenerateDropsStaleFiles(t *testing.T) {
	requireDiff(t)

	dataDir := t.TempDir()
	e := newRealEngine(t, dataDir)
	ignore := domain.MustParsePolicy(domain.DefaultSubmitScript, "stale.txt")
	capture := domain.MustParsePolicy(domain.DefaultSubmitScript)

	inv := diffInvocation(stageDiff(t, map[string]string{"stale.txt": "old\n"}))
	inv.Options.IgnorePatterns = ignore
	inv.Options.CapturePatterns = capture
	inv.Options.CacheFailures = true

	first, err := e.Run(context.Background(), inv)
	require.NoError(t, err)
	assert.Contains(t, first.OutputFiles, "stale.txt")

	regen := diffInvocation(stageDiff(t, nil))
	regen.Options.IgnorePatterns = ignore
	regen.Options.CapturePatterns = capture
	regen.Options.CacheFailures = true
	regen.Options.Regenerate = true

	second, err := e.Run(context.Background(), regen)
	require.NoError(t, err)
	require.Equal(t, first.Identity, second.Identity)
	assert.True(t, second.Stored)
	assert.NotContains(t, second.OutputFiles, "stale.txt")

	entry, err := cas.NewRepository(dataDir).Load("diff", second.Identity)
	require.NoError(t, err)
	for _, f := range entry.Files {
		assert.NotEqual(t, "stale.txt", f.Path)
	}
	assert.NoFileExists(t, filepath.Join(entry.Dir, domain.FilesDirName, "stale.txt"))
}

func TestEngine_Integration_NoExecutableNoFixture(t *testing.T) {
	e := newRealEngine(t, t.TempDir())

	inv := diffInvocation(stageDiff(t, nil))
	inv.Options.ExecutableName = ""

	_, err := e.Run(context.Background(), inv)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoExecutableNoCache)
	assert.Equal(t, "No existing cache, and no executable specified for diff", logger.Headline(err))
}

func TestEngine_Integration_DataDirInsideWorkdir(t *testing.T) {
	requireDiff(t)

	tests := []struct {
		name    string
		dataDir func(work string) string
	}{
		{name: "nested data directory", dataDir: func(work string) string { return filepath.Join(work, "testdata") }},
		{name: "working directory is the data directory", dataDir: func(work string) string { return work }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := stageDiff(t, nil)
			e := newRealEngine(t, tt.dataDir(work))

			inv := diffInvocation(work)
			inv.Options.CacheFailures = true

			first, err := e.Run(context.Background(), inv)
			require.NoError(t, err)
			require.True(t, first.Stored)
			assert.ElementsMatch(t, []string{"file1.txt", "file2.txt"}, first.OutputFiles)

			inv.Options.ExecutableName = ""
			second, err := e.Run(context.Background(), inv)
			require.NoError(t, err)
			assert.True(t, second.Hit(), "identical inputs must replay")
			assert.Equal(t, first.Identity, second.Identity)
			assert.Equal(t, first.OutputFiles, second.OutputFiles)
		})
	}
}

func TestEngine_Integration_GeneratedConfigInsideWorkdir(t *testing.T) {
	requireDiff(t)

	dataDir := t.TempDir()
	work := stageDiff(t, nil)
	cfgPath := filepath.Join(work, domain.ConfigFileName)
	store, err := config.Open(cfgPath)
	require.NoError(t, err)

	inv := diffInvocation(work)
	inv.Options.CacheFailures = true
	inv.Options.ConfigAction = domain.PolicyGenerate

	first, err := newRealEngineWithConfig(t, dataDir, store).Run(context.Background(), inv)
	require.NoError(t, err)
	require.FileExists(t, cfgPath)
	assert.NotContains(t, first.OutputFiles, domain.ConfigFileName)

	fresh := diffInvocation(stageDiff(t, nil))
	fresh.Options.ExecutableName = ""

	second, err := newRealEngine(t, dataDir).Run(context.Background(), fresh)
	require.NoError(t, err)
	assert.True(t, second.Hit())
	assert.Equal(t, first.Identity, second.Identity)
	assert.NoFileExists(t, filepath.Join(fresh.Dir, domain.ConfigFileName))
}
