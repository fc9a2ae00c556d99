package domain

// ExitStatusNotRun marks a result for which no process ran and no fixture existed.
const ExitStatusNotRun = -1

// ResultSource tells where an ExecutionResult came from.
type ResultSource int

const (
	// SourceExecuted means the real executable ran.
	SourceExecuted ResultSource = iota
	// SourceReplayed means a stored fixture was replayed.
	SourceReplayed
	// SourceMissing means neither happened and the caller asked to degrade.
	SourceMissing
)

func (s ResultSource) String() string {
	switch s {
	case SourceReplayed:
		return "replayed"
	case SourceMissing:
		return "missing"
	default:
		return "executed"
	}
}

// ExecutionResult has the same shape for replayed and real executions.
type ExecutionResult struct {
	Identity    Identity
	ExitStatus  int
	Stdout      []byte
	Stderr      []byte
	OutputFiles []string
	Source      ResultSource

	// CacheLocation is the fixture directory the result was replayed from.
	// It is non-empty exactly on a hit.
	CacheLocation string

	// Stored reports whether a new fixture was recorded by this run.
	Stored bool
}

// Hit reports whether the result was replayed from a fixture.
func (r *ExecutionResult) Hit() bool {
	return r.CacheLocation != ""
}
