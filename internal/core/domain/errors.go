package domain

import "go.trai.ch/zerr"

var (
	// ErrInputUnreadable is returned when a staged input file cannot be read while hashing.
	ErrInputUnreadable = zerr.New("input file unreadable")

	// ErrExecutableRequired is returned when the resolution policy requires an executable
	// for a code label and none could be resolved.
	ErrExecutableRequired = zerr.New("executable required but not resolved")

	// ErrNoExecutableNoCache is returned when an invocation has no fixture to replay
	// and cannot (or must not) run a real executable.
	ErrNoExecutableNoCache = zerr.New("no fixture and no executable")

	// ErrFixtureAlreadyExists is returned when storing over an existing fixture without overwrite.
	ErrFixtureAlreadyExists = zerr.New("fixture already exists")

	// ErrFixtureNotFound is returned when a requested fixture does not exist.
	ErrFixtureNotFound = zerr.New("fixture not found")

	// ErrFixtureCorrupt is returned when a stored fixture fails verification.
	ErrFixtureCorrupt = zerr.New("fixture is corrupt")

	// ErrFixtureCreateFailed is returned when a fixture directory cannot be written.
	ErrFixtureCreateFailed = zerr.New("failed to create fixture")

	// ErrFixtureCommitFailed is returned when a staged fixture cannot be renamed into place.
	ErrFixtureCommitFailed = zerr.New("failed to commit fixture")

	// ErrFixtureRemoveFailed is returned when a fixture cannot be removed.
	ErrFixtureRemoveFailed = zerr.New("failed to remove fixture")

	// ErrReplayFailed is returned when stored files cannot be copied back into the working directory.
	ErrReplayFailed = zerr.New("failed to replay fixture")

	// ErrCaptureFailed is returned when output files cannot be collected after execution.
	ErrCaptureFailed = zerr.New("failed to capture outputs")

	// ErrInvalidPattern is returned when a filter pattern is not a valid glob.
	ErrInvalidPattern = zerr.New("invalid filter pattern")

	// ErrInvalidLabel is returned when a code label contains characters unusable in a directory name.
	ErrInvalidLabel = zerr.New("code label can only contain alphanumeric characters, dots, hyphens and underscores")

	// ErrInvalidPolicy is returned when a resolution policy string is not recognised.
	ErrInvalidPolicy = zerr.New("invalid resolution policy, expected 'skip-if-missing', 'require' or 'generate'")

	// ErrInvalidIdentity is returned when an identity string is not a hex SHA-256 digest.
	ErrInvalidIdentity = zerr.New("invalid invocation identity")

	// ErrWorkDirNotFound is returned when the staging directory does not exist.
	ErrWorkDirNotFound = zerr.New("working directory not found")

	// ErrProcessStartFailed is returned when the real executable cannot be started.
	ErrProcessStartFailed = zerr.New("failed to start process")

	// ErrEmptyCommand is returned when there is nothing to execute.
	ErrEmptyCommand = zerr.New("empty command line")

	// ErrConfigReadFailed is returned when the testing config cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read testing config")

	// ErrConfigParseFailed is returned when the testing config cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse testing config")

	// ErrConfigWriteFailed is returned when the testing config cannot be written.
	ErrConfigWriteFailed = zerr.New("failed to write testing config")

	// ErrConfigNotFound is returned when no testing config is found while walking up from a directory.
	ErrConfigNotFound = zerr.New("could not find testing config")
)

// WrapKind wraps cause under the message of kind, so that errors.Is matches both
// kind and cause.
func WrapKind(cause, kind error) error {
	return zerr.Wrap(&kindError{kind: kind, cause: cause}, kind.Error())
}

// kindError reads as its cause and unwraps to both the cause and the kind.
type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string {
	return e.cause.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.cause}
}
