package domain

import (
	"path"
	"strings"

	"go.trai.ch/zerr"
)

// FilterRule is one ordered include/exclude glob.
type FilterRule struct {
	Pattern string
	Include bool
	// Anchored rules match from the filtered root only, never against base names.
	Anchored bool
}

// String renders the rule in its textual form: "!" marks a re-include, a leading "/"
// an anchored rule.
func (r FilterRule) String() string {
	p := r.Pattern
	if r.Anchored {
		p = "/" + p
	}
	if r.Include {
		return "!" + p
	}
	return p
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)

// ExcludePath returns an anchored rule excluding the slash-separated path rel and
// everything below it. Glob characters in rel match literally.
func ExcludePath(rel string) FilterRule {
	return FilterRule{Pattern: globEscaper.Replace(strings.Trim(rel, "/")), Anchored: true}
}

// FilterPolicy is an ordered list of rules. The last matching rule decides;
// a path no rule matches is included.
type FilterPolicy []FilterRule

// ParsePolicy parses textual patterns. A plain pattern excludes, a pattern
// prefixed with "!" re-includes. A leading "/" anchors the pattern at the root.
// Empty entries are skipped.
func ParsePolicy(patterns []string) (FilterPolicy, error) {
	policy := make(FilterPolicy, 0, len(patterns))
	for _, raw := range patterns {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		include := false
		if rest, ok := strings.CutPrefix(p, "!"); ok {
			include = true
			p = rest
		}
		p = normalizePattern(p)
		anchored := false
		if rest, ok := strings.CutPrefix(p, "/"); ok {
			anchored = true
			p = rest
		}
		if p == "" {
			return nil, zerr.With(ErrInvalidPattern, "pattern", raw)
		}
		if _, err := path.Match(p, ""); err != nil {
			return nil, zerr.With(WrapKind(err, ErrInvalidPattern), "pattern", raw)
		}
		policy = append(policy, FilterRule{Pattern: p, Include: include, Anchored: anchored})
	}
	return policy, nil
}

// MustParsePolicy is like ParsePolicy but panics on invalid patterns.
func MustParsePolicy(patterns ...string) FilterPolicy {
	p, err := ParsePolicy(patterns)
	if err != nil {
		panic(err)
	}
	return p
}

// Strings returns the textual form of every rule.
func (p FilterPolicy) Strings() []string {
	out := make([]string, len(p))
	for i, r := range p {
		out[i] = r.String()
	}
	return out
}

// IsIncluded reports whether the slash-separated relative path passes the policy.
func (p FilterPolicy) IsIncluded(relPath string) bool {
	rel := strings.TrimPrefix(path.Clean(strings.ReplaceAll(relPath, "\\", "/")), "./")
	included := true
	for _, r := range p {
		if r.matches(rel) {
			included = r.Include
		}
	}
	return included
}

func (r FilterRule) matches(rel string) bool {
	if !r.Anchored && !strings.Contains(r.Pattern, "/") {
		// Base-name rule: any component of the path, i.e. the file or an ancestor directory.
		for _, part := range strings.Split(rel, "/") {
			if ok, _ := path.Match(r.Pattern, part); ok {
				return true
			}
		}
		return false
	}
	for prefix := rel; ; {
		if ok, _ := path.Match(r.Pattern, prefix); ok {
			return true
		}
		i := strings.LastIndexByte(prefix, '/')
		if i < 0 {
			return false
		}
		prefix = prefix[:i]
	}
}

func normalizePattern(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, "/")
	return p
}
