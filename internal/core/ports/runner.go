package ports

import (
	"context"
	"io"
)

// ProcessSpec describes one real process launch.
type ProcessSpec struct {
	// Argv is the full command line; Argv[0] is resolved through PATH when relative.
	Argv []string
	Dir  string
	// Env overrides are applied on top of the inherited system environment.
	Env map[string]string
	// Hermetic restricts the inherited environment to an allow-list.
	Hermetic bool
	// Stdin is an optional file path fed to standard input.
	Stdin string
	// Stdout and Stderr, when set, receive the streams as they are produced
	// in addition to the captured copies.
	Stdout io.Writer
	Stderr io.Writer
}

// ProcessResult is what a finished process left behind.
type ProcessResult struct {
	ExitStatus int
	Stdout     []byte
	Stderr     []byte
}

// ProcessRunner runs real executables.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type ProcessRunner interface {
	// Run starts the process and waits for it. A non-zero exit is reported in the
	// result, not as an error.
	Run(ctx context.Context, spec ProcessSpec) (ProcessResult, error)

	// LookPath resolves a bare executable name through PATH.
	LookPath(name string) (string, error)
}
