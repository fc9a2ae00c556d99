package domain

// CommandLine is the command the workflow engine would have run.
type CommandLine struct {
	// Prepend is the launcher part (e.g. "mpirun -np 4"), placed before the executable.
	Prepend []string
	// Args are passed to the executable.
	Args []string
	// StdinName, StdoutName and StderrName are optional file names relative to the
	// working directory used for redirection.
	StdinName  string
	StdoutName string
	StderrName string
}

// MissingPolicy decides what a cache miss without an executable does.
type MissingPolicy int

const (
	// MissingFail fails only when no executable is resolved.
	MissingFail MissingPolicy = iota
	// MissingStrict fails on any miss, even when an executable is available.
	MissingStrict
	// MissingDegrade skips execution and returns a SourceMissing result.
	MissingDegrade
)

func (p MissingPolicy) String() string {
	switch p {
	case MissingStrict:
		return "strict"
	case MissingDegrade:
		return "degrade"
	default:
		return "fail"
	}
}

// Options tune a single invocation.
type Options struct {
	// IgnorePatterns filter the inputs that are hashed.
	IgnorePatterns FilterPolicy
	// CapturePatterns filter the outputs that are stored; nil means IgnorePatterns.
	CapturePatterns FilterPolicy
	// ConfigAction overrides the resolution policy from the testing config.
	ConfigAction ResolutionPolicy
	// ExecutableName is resolved through PATH when the config has no entry.
	ExecutableName string
	// Regenerate ignores any existing fixture and replaces it.
	Regenerate bool
	// DisableParallelism drops the launcher and forces a single thread.
	DisableParallelism bool
	OnMissing          MissingPolicy
	// CacheFailures stores fixtures for non-zero exit statuses too.
	CacheFailures bool
	// Env holds extra environment variables for the real process.
	Env map[string]string
	// Hermetic hides the caller's environment from the real process, except for an allow-list.
	Hermetic bool
}

// CapturePolicy returns the policy used when collecting outputs.
func (o Options) CapturePolicy() FilterPolicy {
	if o.CapturePatterns != nil {
		return o.CapturePatterns
	}
	return o.IgnorePatterns
}

// Invocation is one request to run (or replay) a code in a staged directory.
type Invocation struct {
	Label   string
	Dir     string
	Command CommandLine
	Options Options
}
