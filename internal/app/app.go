// Package app implements the session layer for mockcode: it owns the testing config
// for the session and hands out configured codes.
package app

import (
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/core/ports"
	"go.trai.ch/mockcode/internal/engine/mockexec"
	"go.trai.ch/zerr"
)

// App is one mockcode session.
type App struct {
	configLoader ports.ConfigLoader
	hasher       ports.InvocationHasher
	collector    ports.OutputCollector
	openRepo     ports.RepositoryOpener
	runner       ports.ProcessRunner
	tracer       ports.Tracer
	logger       ports.Logger

	settings  Settings
	sessionID string

	mu     sync.Mutex
	config ports.ConfigStore
}

// New creates a new App instance with default settings.
func New(
	loader ports.ConfigLoader,
	hasher ports.InvocationHasher,
	collector ports.OutputCollector,
	openRepo ports.RepositoryOpener,
	runner ports.ProcessRunner,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		hasher:       hasher,
		collector:    collector,
		openRepo:     openRepo,
		runner:       runner,
		tracer:       tracer,
		logger:       log,
		settings:     Settings{DataDir: DefaultDataDir},
		sessionID:    uuid.NewString(),
	}
}

// WithSettings replaces the session settings and drops the loaded testing config, so the
// next Config call honours the new ConfigPath.
func (a *App) WithSettings(s Settings) *App {
	if s.DataDir == "" {
		s.DataDir = DefaultDataDir
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings = s
	a.config = nil
	return a
}

// Settings returns the session settings.
func (a *App) Settings() Settings {
	return a.settings
}

// SessionID identifies this session in logs and spans.
func (a *App) SessionID() string {
	return a.sessionID
}

// Config returns the session's testing config, loading it on first use. The explicit
// ConfigPath wins; otherwise the file is discovered upwards from dir, and when none exists
// an empty document at dir is used so that generate and config edits have somewhere to write.
func (a *App) Config(dir string) (ports.ConfigStore, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config != nil {
		return a.config, nil
	}

	path := a.settings.ConfigPath
	if path == "" {
		found, err := a.configLoader.Discover(dir)
		if err != nil {
			found = filepath.Join(dir, domain.ConfigFileName)
		}
		path = found
	}

	store, err := a.configLoader.Open(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load testing config")
	}
	a.config = store
	return store, nil
}

// Repository returns the fixture repository for dataDir, or for the session's data
// directory when dataDir is empty.
func (a *App) Repository(dataDir string) ports.FixtureRepository {
	if dataDir == "" {
		dataDir = a.settings.DataDir
	}
	return a.openRepo(dataDir)
}

// Identity computes the identity of the inputs staged in dir without touching any fixture.
func (a *App) Identity(label, dir string, ignore []string) (domain.Identity, error) {
	if err := domain.ValidateLabel(label); err != nil {
		return "", err
	}
	policy, err := domain.ParsePolicy(ignore)
	if err != nil {
		return "", err
	}
	return a.hasher.ComputeIdentity(label, dir, policy)
}

// CodeSpec describes a code the way a test declares it.
type CodeSpec struct {
	Label string
	// DataDir holds the fixtures; the session data directory when empty.
	DataDir string
	// ConfigDir is where the testing config is discovered from; the current directory when empty.
	ConfigDir          string
	ExecutableName     string
	IgnorePatterns     []string
	CapturePatterns    []string
	ConfigAction       domain.ResolutionPolicy
	Regenerate         bool
	DisableParallelism bool
	// Degrade returns a SourceMissing result instead of failing when nothing can run.
	Degrade       bool
	CacheFailures bool
	// Hermetic runs the real code with an allow-listed environment only.
	Hermetic bool
	Env      map[string]string
}

// NewCode validates spec against the session and resolves its executable up front, so
// that a required but missing executable fails at declaration time.
func (a *App) NewCode(spec CodeSpec) (*Code, error) {
	if err := domain.ValidateLabel(spec.Label); err != nil {
		return nil, err
	}

	opts, err := a.options(spec)
	if err != nil {
		return nil, err
	}

	configDir := spec.ConfigDir
	if configDir == "" {
		configDir = "."
	}
	config, err := a.Config(configDir)
	if err != nil {
		return nil, err
	}

	dataDir := spec.DataDir
	if dataDir == "" {
		dataDir = a.settings.DataDir
	}
	absData, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid data directory"), "data_dir", dataDir)
	}

	engine := mockexec.NewEngine(
		a.hasher,
		a.collector,
		a.openRepo(absData),
		a.runner,
		config,
		a.tracer,
		a.logger,
	)

	executable, err := engine.ResolveExecutable(spec.Label, opts)
	if err != nil {
		return nil, err
	}

	return &Code{
		label:      spec.Label,
		executable: executable,
		options:    opts,
		engine:     engine,
		tracer:     a.tracer,
		sessionID:  a.sessionID,
	}, nil
}

// options merges the spec with the session settings. Code-level choices win over the
// session, except that the session can force regeneration and strict misses on.
func (a *App) options(spec CodeSpec) (domain.Options, error) {
	ignore, err := domain.ParsePolicy(spec.IgnorePatterns)
	if err != nil {
		return domain.Options{}, err
	}

	var capture domain.FilterPolicy
	if spec.CapturePatterns != nil {
		if capture, err = domain.ParsePolicy(spec.CapturePatterns); err != nil {
			return domain.Options{}, err
		}
	}

	onMissing := domain.MissingFail
	switch {
	case a.settings.FailOnMissing:
		onMissing = domain.MissingStrict
	case spec.Degrade:
		onMissing = domain.MissingDegrade
	}

	return domain.Options{
		IgnorePatterns:     ignore,
		CapturePatterns:    capture,
		ConfigAction:       spec.ConfigAction.Or(a.settings.ConfigAction),
		ExecutableName:     spec.ExecutableName,
		Regenerate:         spec.Regenerate || a.settings.Regenerate,
		DisableParallelism: spec.DisableParallelism,
		OnMissing:          onMissing,
		CacheFailures:      spec.CacheFailures,
		Env:                spec.Env,
		Hermetic:           spec.Hermetic,
	}, nil
}
