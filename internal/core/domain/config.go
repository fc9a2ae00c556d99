package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// ResolutionPolicy decides how an unresolved executable is treated.
type ResolutionPolicy string

const (
	// PolicyUnset defers to the config entry or the default.
	PolicyUnset ResolutionPolicy = ""
	// PolicySkipIfMissing proceeds without an executable.
	PolicySkipIfMissing ResolutionPolicy = "skip-if-missing"
	// PolicyRequire fails when no executable is resolved.
	PolicyRequire ResolutionPolicy = "require"
	// PolicyGenerate records unknown labels in the testing config.
	PolicyGenerate ResolutionPolicy = "generate"
)

// ParseResolutionPolicy accepts the canonical names and the legacy
// read/require-executable/auto-generate-entry spellings.
func ParseResolutionPolicy(s string) (ResolutionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PolicyUnset, nil
	case "skip-if-missing", "read":
		return PolicySkipIfMissing, nil
	case "require", "require-executable":
		return PolicyRequire, nil
	case "generate", "auto-generate-entry":
		return PolicyGenerate, nil
	default:
		return PolicyUnset, zerr.With(ErrInvalidPolicy, "policy", s)
	}
}

// Or returns p unless it is unset.
func (p ResolutionPolicy) Or(fallback ResolutionPolicy) ResolutionPolicy {
	if p == PolicyUnset {
		return fallback
	}
	return p
}

// CodeConfig is the testing config entry for one code label.
type CodeConfig struct {
	Executable string
	Policy     ResolutionPolicy
}
