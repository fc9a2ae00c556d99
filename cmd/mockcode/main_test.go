package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mockcode/cmd/mockcode/commands"
	"go.trai.ch/mockcode/internal/app"
)

func withEnv(vars map[string]string) func(*commands.CLI) {
	return func(c *commands.CLI) {
		c.SetEnv(func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"version"}, &stderr, func(c *commands.CLI) { c.SetOutput(&stdout, &stderr) })

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "mockcode version")
	assert.Empty(t, stderr.String())
}

func TestRun_ErrorHeadline(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "file1.txt"), []byte("a\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(
		[]string{"run", "--label", "diff", "-C", dir, "--log-format", "json"},
		&stderr,
		func(c *commands.CLI) { c.SetOutput(&stdout, &stderr) },
		withEnv(map[string]string{
			app.EnvConfig:  filepath.Join(dir, ".mockcode-config.yml"),
			app.EnvDataDir: filepath.Join(dir, "data"),
		}),
	)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "ERROR: No existing cache, and no executable specified for diff\n")
	assert.Empty(t, stdout.String())
}

func TestRun_UnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"frobnicate"}, &stderr, func(c *commands.CLI) { c.SetOutput(&bytes.Buffer{}, &stderr) })

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "ERROR: unknown command")
}
