// Package mockexec decides, per invocation, whether a recorded execution can stand in
// for the real program and records a new one when it cannot.
package mockexec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/core/ports"
	"go.trai.ch/zerr"
)

// Phase names recorded as span events, in the order a run passes through them.
const (
	PhaseResolve = "resolve_executable"
	PhaseHash    = "hash_inputs"
	PhaseHit     = "cache_hit"
	PhaseMiss    = "cache_miss"
	PhaseReplay  = "replay"
	PhaseExecute = "execute"
	PhaseCapture = "capture"
)

// Span attribute keys.
const (
	AttrLabel    = "mockcode.label"
	AttrIdentity = "mockcode.identity"
	AttrCacheHit = "mockcode.cache_hit"
	AttrExit     = "mockcode.exit_status"
)

// singleThreadEnv is forced on the real process when parallelism is disabled.
var singleThreadEnv = map[string]string{"OMP_NUM_THREADS": "1"}

// Engine runs or replays invocations of external codes.
type Engine struct {
	hasher    ports.InvocationHasher
	collector ports.OutputCollector
	repo      ports.FixtureRepository
	runner    ports.ProcessRunner
	config    ports.ConfigStore
	tracer    ports.Tracer
	logger    ports.Logger
}

// NewEngine creates a new Engine. config may be nil when the session has no testing config;
// every label is then unknown.
func NewEngine(
	hasher ports.InvocationHasher,
	collector ports.OutputCollector,
	repo ports.FixtureRepository,
	runner ports.ProcessRunner,
	config ports.ConfigStore,
	tracer ports.Tracer,
	logger ports.Logger,
) *Engine {
	return &Engine{
		hasher:    hasher,
		collector: collector,
		repo:      repo,
		runner:    runner,
		config:    config,
		tracer:    tracer,
		logger:    logger,
	}
}

// Repository returns the fixture repository the engine reads and writes.
func (e *Engine) Repository() ports.FixtureRepository {
	return e.repo
}

// Run resolves the executable, hashes the staged inputs and either replays the matching
// fixture or executes the real program and records its outputs.
func (e *Engine) Run(ctx context.Context, inv domain.Invocation) (*domain.ExecutionResult, error) {
	ctx, span := e.tracer.Start(ctx, "mockcode.run", ports.WithAttribute(AttrLabel, inv.Label))
	defer span.End()

	res, err := e.run(ctx, span, inv)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute(AttrCacheHit, res.Hit())
	span.SetAttribute(AttrExit, res.ExitStatus)
	return res, nil
}

func (e *Engine) run(ctx context.Context, span ports.Span, inv domain.Invocation) (*domain.ExecutionResult, error) {
	if err := domain.ValidateLabel(inv.Label); err != nil {
		return nil, err
	}

	span.AddEvent(PhaseResolve)
	executable, err := e.ResolveExecutable(inv.Label, inv.Options)
	if err != nil {
		return nil, err
	}

	span.AddEvent(PhaseHash)
	inv.Options = withRules(inv.Options, e.stateRules(inv.Dir))
	id, err := e.hasher.ComputeIdentity(inv.Label, inv.Dir, inv.Options.IgnorePatterns)
	if err != nil {
		return nil, err
	}
	span.SetAttribute(AttrIdentity, id.String())

	if inv.Options.Regenerate {
		e.logger.Info("regenerating fixture " + domain.FixtureDirName(inv.Label, id))
	} else {
		found, err := e.repo.Has(inv.Label, id)
		if err != nil {
			return nil, err
		}
		if found {
			span.AddEvent(PhaseHit)
			span.AddEvent(PhaseReplay)
			return e.replay(inv, id)
		}
	}

	span.AddEvent(PhaseMiss)
	// Regeneration is an explicit request to run, so it is not a miss in the strict sense.
	if inv.Options.OnMissing == domain.MissingStrict && !inv.Options.Regenerate {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrNoExecutableNoCache, "No cache hit for "+inv.Label+"/"+id.String()),
			"dir", inv.Dir,
		)
	}
	if executable == "" {
		if inv.Options.OnMissing == domain.MissingDegrade {
			e.logger.Warn("no fixture and no executable for " + inv.Label + ", skipping execution")
			return &domain.ExecutionResult{
				Identity:   id,
				ExitStatus: domain.ExitStatusNotRun,
				Source:     domain.SourceMissing,
			}, nil
		}
		return nil, zerr.With(
			zerr.Wrap(domain.ErrNoExecutableNoCache, "No existing cache, and no executable specified for "+inv.Label),
			"identity", id.String(),
		)
	}

	e.logger.Info("no fixture for " + inv.Label + "/" + id.Short() + ", running " + executable)
	span.AddEvent(PhaseExecute)
	res, err := e.execute(ctx, inv, executable, id)
	if err != nil {
		return nil, err
	}

	span.AddEvent(PhaseCapture)
	if err := e.capture(inv, executable, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) replay(inv domain.Invocation, id domain.Identity) (*domain.ExecutionResult, error) {
	entry, err := e.repo.Load(inv.Label, id)
	if err != nil {
		return nil, err
	}
	if err := e.repo.Restore(entry, inv.Dir); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entry.Files))
	for _, f := range entry.Files {
		files = append(files, f.Path)
	}

	e.logger.Info("replayed " + entry.Label + "/" + id.Short() + " from " + entry.Dir)
	return &domain.ExecutionResult{
		Identity:      id,
		ExitStatus:    entry.ExitStatus,
		Stdout:        entry.Stdout,
		Stderr:        entry.Stderr,
		OutputFiles:   files,
		Source:        domain.SourceReplayed,
		CacheLocation: entry.Dir,
	}, nil
}

func (e *Engine) execute(
	ctx context.Context,
	inv domain.Invocation,
	executable string,
	id domain.Identity,
) (*domain.ExecutionResult, error) {
	cmd := inv.Command
	argv := make([]string, 0, len(cmd.Prepend)+1+len(cmd.Args))
	env := make(map[string]string, len(inv.Options.Env)+len(singleThreadEnv))
	for k, v := range inv.Options.Env {
		env[k] = v
	}
	if inv.Options.DisableParallelism {
		if len(cmd.Prepend) > 0 {
			e.logger.Info("parallelism disabled, dropping launcher " + strings.Join(cmd.Prepend, " "))
		}
		for k, v := range singleThreadEnv {
			env[k] = v
		}
	} else {
		argv = append(argv, cmd.Prepend...)
	}
	argv = append(argv, executable)
	argv = append(argv, cmd.Args...)

	out, err := e.runner.Run(ctx, ports.ProcessSpec{
		Argv:     argv,
		Dir:      inv.Dir,
		Env:      env,
		Stdin:    cmd.StdinName,
		Hermetic: inv.Options.Hermetic,
	})
	if err != nil {
		return nil, err
	}

	if err := writeStream(inv.Dir, cmd.StdoutName, out.Stdout); err != nil {
		return nil, err
	}
	if err := writeStream(inv.Dir, cmd.StderrName, out.Stderr); err != nil {
		return nil, err
	}

	return &domain.ExecutionResult{
		Identity:   id,
		ExitStatus: out.ExitStatus,
		Stdout:     out.Stdout,
		Stderr:     out.Stderr,
		Source:     domain.SourceExecuted,
	}, nil
}

// capture collects the output files and stores them as a fixture. OutputFiles is filled
// even when nothing is stored.
func (e *Engine) capture(inv domain.Invocation, executable string, res *domain.ExecutionResult) error {
	files, err := e.collector.CollectOutputs(inv.Dir, inv.Options.CapturePolicy())
	if err != nil {
		return err
	}
	res.OutputFiles = make([]string, 0, len(files))
	for _, f := range files {
		res.OutputFiles = append(res.OutputFiles, f.Path)
	}

	name := domain.FixtureDirName(inv.Label, res.Identity)
	if res.ExitStatus != 0 && !inv.Options.CacheFailures {
		e.logger.Warn("not storing " + name + ": exit status " + strconv.Itoa(res.ExitStatus))
		return nil
	}

	mode := domain.StoreFailIfExists
	if inv.Options.Regenerate {
		mode = domain.StoreOverwrite
	}

	entry := &domain.FixtureEntry{
		Label:      inv.Label,
		Identity:   res.Identity,
		ExitStatus: res.ExitStatus,
		Stdout:     res.Stdout,
		Stderr:     res.Stderr,
		Files:      files,
		Command:    append([]string{executable}, inv.Command.Args...),
	}
	if err := e.repo.Store(inv.Label, res.Identity, entry, mode); err != nil {
		if errors.Is(err, domain.ErrFixtureAlreadyExists) {
			e.logger.Warn("fixture " + name + " appeared while running, keeping the existing one")
			return nil
		}
		return err
	}

	res.Stored = true
	e.logger.Info("stored " + name + " (" + strconv.Itoa(len(files)) + " files)")
	return nil
}

// ResolveExecutable finds the real executable for label and applies the resolution policy.
// An empty result with a nil error means the invocation can only be replayed.
func (e *Engine) ResolveExecutable(label string, opts domain.Options) (string, error) {
	var entry domain.CodeConfig
	var known bool
	if e.config != nil {
		entry, known = e.config.Get(label)
	}
	policy := opts.ConfigAction.Or(entry.Policy).Or(domain.PolicySkipIfMissing)

	var executable string
	if entry.Executable != "" {
		executable = e.resolveConfigured(label, entry.Executable)
	}
	if executable == "" && opts.ExecutableName != "" {
		if p, err := e.runner.LookPath(opts.ExecutableName); err == nil {
			executable = p
		} else {
			e.logger.Info("executable " + opts.ExecutableName + " not found on PATH")
		}
	}

	switch policy {
	case domain.PolicyRequire:
		if executable == "" {
			return "", zerr.With(
				zerr.Wrap(domain.ErrExecutableRequired, "Executable for code label "+label+" is required but not configured"),
				"label", label,
			)
		}
	case domain.PolicyGenerate:
		if !known {
			if err := e.generateEntry(label, executable); err != nil {
				return "", err
			}
		}
	case domain.PolicySkipIfMissing, domain.PolicyUnset:
	}

	return executable, nil
}

func (e *Engine) generateEntry(label, executable string) error {
	if e.config == nil {
		e.logger.Warn("no testing config in this session, cannot record " + label)
		return nil
	}
	e.config.Set(label, domain.CodeConfig{Executable: executable})
	if err := e.config.Persist(); err != nil {
		return err
	}
	e.logger.Info("recorded " + label + " in " + e.config.Path())
	return nil
}

// resolveConfigured turns a configured executable into a runnable path. Relative paths and
// bare names found next to the config file resolve against its directory; other bare names
// go through PATH.
func (e *Engine) resolveConfigured(label, configured string) string {
	var base string
	if e.config != nil {
		base = filepath.Dir(e.config.Path())
	}

	candidates := make([]string, 0, 2)
	switch {
	case filepath.IsAbs(configured):
		candidates = append(candidates, configured)
	case strings.ContainsRune(configured, filepath.Separator):
		candidates = append(candidates, filepath.Join(base, configured))
	default:
		if base != "" {
			candidates = append(candidates, filepath.Join(base, configured))
		}
		candidates = append(candidates, configured)
	}

	for _, c := range candidates {
		if p, err := e.runner.LookPath(c); err == nil {
			return p
		}
	}

	e.logger.Warn("configured executable for " + label + " not found: " + configured)
	return ""
}

func writeStream(dir, name string, data []byte) error {
	if name == "" {
		return nil
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, name)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil { //nolint:gosec // redirect file inside the staged directory
		return zerr.With(domain.WrapKind(err, domain.ErrCaptureFailed), "file", name)
	}
	return nil
}

// stateRules excludes the data directory and the testing config when they sit inside dir,
// so that fixtures and generated config entries never become inputs or outputs.
func (e *Engine) stateRules(dir string) domain.FilterPolicy {
	var rules domain.FilterPolicy
	switch rel, ok := relativeTo(dir, e.repo.Root()); {
	case !ok:
	case rel == ".":
		rules = append(rules,
			domain.FilterRule{Pattern: domain.FixtureDirPrefix + "*", Anchored: true},
			domain.FilterRule{Pattern: domain.StagingDirPrefix + "*", Anchored: true},
		)
	default:
		rules = append(rules, domain.ExcludePath(rel))
	}
	if e.config != nil {
		if rel, ok := relativeTo(dir, e.config.Path()); ok && rel != "." {
			rules = append(rules, domain.ExcludePath(rel))
		}
	}
	return rules
}

// withRules appends rules to both the hash and the capture policy. They come last, so
// no user rule can re-include what they exclude.
func withRules(opts domain.Options, rules domain.FilterPolicy) domain.Options {
	if len(rules) == 0 {
		return opts
	}
	capture := opts.CapturePolicy()
	opts.IgnorePatterns = append(slices.Clone(opts.IgnorePatterns), rules...)
	opts.CapturePatterns = append(slices.Clone(capture), rules...)
	return opts
}

// relativeTo returns target as a slash-separated path relative to dir when target is dir
// or lies below it.
func relativeTo(dir, target string) (string, bool) {
	if dir == "" || target == "" {
		return "", false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
