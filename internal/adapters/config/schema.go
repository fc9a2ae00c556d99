package config

import (
	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// document is the on-disk testing config. Sections other than mock_code belong to
// other tools and are carried through untouched.
type document struct {
	MockCode map[string]codeEntry `yaml:"mock_code,omitempty"`
	Other    map[string]any       `yaml:",inline"`
}

// codeEntry accepts either a bare executable string or an
// {executable, policy} mapping.
type codeEntry struct {
	Executable string `yaml:"executable"`
	Policy     string `yaml:"policy,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *codeEntry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&e.Executable)
	case yaml.MappingNode:
		type plain codeEntry
		return value.Decode((*plain)(e))
	default:
		return zerr.With(zerr.New("mock_code entry must be a string or a mapping"), "line", value.Line)
	}
}

// MarshalYAML implements yaml.Marshaler. Entries without a policy use the short form.
func (e codeEntry) MarshalYAML() (any, error) {
	if e.Policy == "" {
		return e.Executable, nil
	}
	type plain codeEntry
	return plain(e), nil
}

func (e codeEntry) toDomain() (domain.CodeConfig, error) {
	policy, err := domain.ParseResolutionPolicy(e.Policy)
	if err != nil {
		return domain.CodeConfig{}, err
	}
	return domain.CodeConfig{Executable: e.Executable, Policy: policy}, nil
}

func fromDomain(cfg domain.CodeConfig) codeEntry {
	return codeEntry{Executable: cfg.Executable, Policy: string(cfg.Policy)}
}
