package app

import (
	"strconv"

	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/zerr"
)

// Environment variables read by SettingsFromEnv.
const (
	EnvConfig        = "MOCKCODE_CONFIG"
	EnvDataDir       = "MOCKCODE_DATA_DIR"
	EnvRegenerate    = "MOCKCODE_REGENERATE"
	EnvFailOnMissing = "MOCKCODE_FAIL_ON_MISSING"
	EnvConfigAction  = "MOCKCODE_CONFIG_ACTION"
)

// DefaultDataDir is the fixture directory used when neither the code nor the session names one.
const DefaultDataDir = "testdata"

// Settings are the session-wide defaults every Code inherits.
type Settings struct {
	// ConfigPath is an explicit testing config. When empty the config is discovered
	// by walking up from the working directory.
	ConfigPath string
	DataDir    string
	// Regenerate forces every code in the session to re-run and replace its fixtures.
	Regenerate bool
	// FailOnMissing turns every cache miss into an error.
	FailOnMissing bool
	// ConfigAction is the resolution policy for codes that do not set their own.
	ConfigAction domain.ResolutionPolicy
}

// SettingsFromEnv reads the session settings through lookup, typically os.LookupEnv.
func SettingsFromEnv(lookup func(string) (string, bool)) (Settings, error) {
	s := Settings{DataDir: DefaultDataDir}

	if v, ok := lookup(EnvConfig); ok {
		s.ConfigPath = v
	}
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		s.DataDir = v
	}

	var err error
	if s.Regenerate, err = envBool(lookup, EnvRegenerate); err != nil {
		return Settings{}, err
	}
	if s.FailOnMissing, err = envBool(lookup, EnvFailOnMissing); err != nil {
		return Settings{}, err
	}

	if v, ok := lookup(EnvConfigAction); ok {
		policy, err := domain.ParseResolutionPolicy(v)
		if err != nil {
			return Settings{}, zerr.With(err, "env", EnvConfigAction)
		}
		s.ConfigAction = policy
	}

	return s, nil
}

func envBool(lookup func(string) (string, bool), key string) (bool, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "invalid boolean in environment"), "env", key)
	}
	return b, nil
}
