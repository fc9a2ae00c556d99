package domain

import (
	"path/filepath"
	"strings"
)

const (
	// ConfigFileName is the name of the testing config document.
	ConfigFileName = ".mockcode-config.yml"

	// FixtureDirPrefix prefixes every fixture directory in a data directory.
	FixtureDirPrefix = "mock-"

	// StagingDirPrefix prefixes directories a data directory holds while an entry is
	// being written or removed.
	StagingDirPrefix = ".tmp-"

	// ManifestFileName is the name of the fixture metadata record.
	ManifestFileName = "manifest.json"

	// StdoutFileName holds the captured standard output of a fixture.
	StdoutFileName = "stdout"

	// StderrFileName holds the captured standard error of a fixture.
	StderrFileName = "stderr"

	// FilesDirName is the fixture subdirectory holding captured output files.
	FilesDirName = "files"

	// DefaultSubmitScript is the submission script name staged by the workflow engine.
	// It embeds absolute paths and is excluded from hashing by default.
	DefaultSubmitScript = "_aiidasubmit.sh"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// FixtureDirName returns the directory name of the fixture for a label and identity.
func FixtureDirName(label string, id Identity) string {
	return FixtureDirPrefix + label + "-" + id.String()
}

// FixturePath returns the location of a fixture inside a data directory.
func FixturePath(dataDir, label string, id Identity) string {
	return filepath.Join(dataDir, FixtureDirName(label, id))
}

// ParseFixtureDirName splits a fixture directory name into its label and identity.
// Labels may contain hyphens, so the identity is taken from the last hyphen.
func ParseFixtureDirName(name string) (string, Identity, bool) {
	rest, ok := strings.CutPrefix(name, FixtureDirPrefix)
	if !ok {
		return "", "", false
	}
	i := strings.LastIndexByte(rest, '-')
	if i <= 0 {
		return "", "", false
	}
	id, err := ParseIdentity(rest[i+1:])
	if err != nil {
		return "", "", false
	}
	return rest[:i], id, true
}
