package domain

import (
	"io/fs"
	"time"
)

// FixtureFile describes one captured output file.
type FixtureFile struct {
	// Path is the slash-separated path relative to the working directory.
	Path     string      `json:"path"`
	Size     int64       `json:"size"`
	Mode     fs.FileMode `json:"mode"`
	Checksum string      `json:"xxh64"`

	// Source is where the file currently lives on disk: the working directory
	// before Store, the fixture's files/ directory after Load.
	Source string `json:"-"`
}

// FixtureEntry is a recorded execution keyed by (Label, Identity).
// Entries are created whole and replaced whole; they are never patched.
type FixtureEntry struct {
	Label      string        `json:"label"`
	Identity   Identity      `json:"identity"`
	ExitStatus int           `json:"exit_status"`
	Stdout     []byte        `json:"-"`
	Stderr     []byte        `json:"-"`
	Files      []FixtureFile `json:"files"`
	CreatedAt  time.Time     `json:"created_at"`
	Command    []string      `json:"command,omitempty"`

	// Dir is the entry's directory, set by the repository on Load.
	Dir string `json:"-"`
}

// FixtureRef points at a stored entry without loading it.
type FixtureRef struct {
	Label    string
	Identity Identity
	Dir      string
}

// StoreMode selects what Store does when an entry already exists.
type StoreMode int

const (
	// StoreFailIfExists refuses to replace an existing entry.
	StoreFailIfExists StoreMode = iota
	// StoreOverwrite atomically replaces an existing entry.
	StoreOverwrite
)

func (m StoreMode) String() string {
	if m == StoreOverwrite {
		return "overwrite"
	}
	return "fail-if-exists"
}
