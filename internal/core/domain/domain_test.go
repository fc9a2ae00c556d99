package domain_test

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mockcode/internal/core/domain"
)

const testIdentity = domain.Identity("3b5d3c7d207e37dceeedd301e35e2e58408f7c5d4c1f4e8c7d0b1e2a3f4c5d6e")

func TestFixtureDirName(t *testing.T) {
	t.Parallel()

	name := domain.FixtureDirName("diff", testIdentity)
	assert.Equal(t, "mock-diff-"+testIdentity.String(), name)
	assert.Equal(t, filepath.Join("data", name), domain.FixturePath("data", "diff", testIdentity))
}

func TestParseFixtureDirName(t *testing.T) {
	t.Parallel()

	t.Run("label with hyphens", func(t *testing.T) {
		t.Parallel()
		label, id, ok := domain.ParseFixtureDirName(domain.FixtureDirName("quantum-espresso.pw", testIdentity))
		require.True(t, ok)
		assert.Equal(t, "quantum-espresso.pw", label)
		assert.Equal(t, testIdentity, id)
	})

	for _, name := range []string{
		"diff-" + testIdentity.String(),
		"mock-" + testIdentity.String(),
		"mock-diff-abc",
		".tmp-mock-diff-123",
	} {
		t.Run("rejects "+name[:min(len(name), 16)], func(t *testing.T) {
			t.Parallel()
			_, _, ok := domain.ParseFixtureDirName(name)
			assert.False(t, ok)
		})
	}
}

func TestParseIdentity(t *testing.T) {
	t.Parallel()

	id, err := domain.ParseIdentity(testIdentity.String())
	require.NoError(t, err)
	assert.Equal(t, "3b5d3c7d207e", id.Short())

	_, err = domain.ParseIdentity(strings.ToUpper(testIdentity.String()))
	require.ErrorContains(t, err, domain.ErrInvalidIdentity.Error())

	_, err = domain.ParseIdentity("abc")
	require.ErrorContains(t, err, domain.ErrInvalidIdentity.Error())
}

func TestValidateLabel(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"diff", "pw.x", "quantum_espresso-7"} {
		require.NoError(t, domain.ValidateLabel(ok), ok)
	}
	for _, bad := range []string{"", ".", "..", "a/b", "with space"} {
		require.ErrorContains(t, domain.ValidateLabel(bad), domain.ErrInvalidLabel.Error(), bad)
	}
}

func TestParseResolutionPolicy(t *testing.T) {
	t.Parallel()

	tests := map[string]domain.ResolutionPolicy{
		"":                    domain.PolicyUnset,
		"read":                domain.PolicySkipIfMissing,
		"skip-if-missing":     domain.PolicySkipIfMissing,
		"require":             domain.PolicyRequire,
		"require-executable":  domain.PolicyRequire,
		"Generate":            domain.PolicyGenerate,
		"auto-generate-entry": domain.PolicyGenerate,
	}
	for in, want := range tests {
		got, err := domain.ParseResolutionPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := domain.ParseResolutionPolicy("sometimes")
	require.ErrorContains(t, err, domain.ErrInvalidPolicy.Error())

	assert.Equal(t, domain.PolicyRequire, domain.PolicyUnset.Or(domain.PolicyRequire))
	assert.Equal(t, domain.PolicyGenerate, domain.PolicyGenerate.Or(domain.PolicyRequire))
}

func TestOptions_CapturePolicy(t *testing.T) {
	t.Parallel()

	ignore := domain.MustParsePolicy("_aiidasubmit.sh")
	assert.Equal(t, ignore, domain.Options{IgnorePatterns: ignore}.CapturePolicy())

	capture := domain.FilterPolicy{}
	assert.Equal(t, capture, domain.Options{IgnorePatterns: ignore, CapturePatterns: capture}.CapturePolicy())
}

func TestExecutionResult_Hit(t *testing.T) {
	t.Parallel()

	assert.False(t, (&domain.ExecutionResult{Source: domain.SourceExecuted}).Hit())
	assert.True(t, (&domain.ExecutionResult{Source: domain.SourceReplayed, CacheLocation: "/data/mock-x"}).Hit())
}

func TestWrapKind(t *testing.T) {
	t.Parallel()

	err := domain.WrapKind(fs.ErrPermission, domain.ErrInputUnreadable)
	assert.ErrorIs(t, err, domain.ErrInputUnreadable)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, domain.ErrFixtureCorrupt)
	assert.Contains(t, err.Error(), domain.ErrInputUnreadable.Error())
}
