package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mockcode/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Pretty(t *testing.T) {
	tests := []struct {
		name       string
		log        func(*logger.Logger)
		goldenName string
	}{
		{
			name:       "info",
			log:        func(l *logger.Logger) { l.Info("some message") },
			goldenName: "info_basic",
		},
		{
			name:       "multiline info",
			log:        func(l *logger.Logger) { l.Info("line1\nline2") },
			goldenName: "info_multiline",
		},
		{
			name:       "warn",
			log:        func(l *logger.Logger) { l.Warn("some warning") },
			goldenName: "warn_basic",
		},
		{
			name: "error chain with metadata",
			log: func(l *logger.Logger) {
				l.Error(zerr.With(zerr.Wrap(errors.New("permission denied"), "input file unreadable"), "path", "file1.txt"))
			},
			goldenName: "error_chain",
		},
		{
			name:       "standard error",
			log:        func(l *logger.Logger) { l.Error(errors.New("plain failure")) },
			goldenName: "error_plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.With("session", "0b5e")

	lg.Error(zerr.With(zerr.Wrap(errors.New("exit status 2"), "process failed"), "exit_code", 2))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "process failed", record["msg"])
	assert.Equal(t, "0b5e", record["session"])
	assert.Equal(t, map[string]any{"exit_code": float64(2)}, record["metadata"])
}

func TestLogger_SetJSONPreservesOutput(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Info("structured")
	lg.SetJSON(false)
	lg.Info("pretty")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.True(t, json.Valid(lines[0]))
	assert.Equal(t, "pretty", string(lines[1]))
}

func TestHeadline(t *testing.T) {
	t.Parallel()

	assert.Empty(t, logger.Headline(nil))
	assert.Equal(t, "plain", logger.Headline(errors.New("plain")))
	assert.Equal(t, "No cache hit for diff/abc",
		logger.Headline(zerr.With(zerr.Wrap(zerr.New("no fixture and no executable"), "No cache hit for diff/abc"), "label", "diff")))
}
