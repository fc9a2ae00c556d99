package shell

// Exported for white-box testing.
var (
	ResolveEnvironment = resolveEnvironment
	LookPathIn         = lookPath
)
