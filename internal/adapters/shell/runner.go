// Package shell runs real executables and captures what they produce.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.ProcessRunner = (*Runner)(nil)

// Runner implements ports.ProcessRunner using os/exec.
type Runner struct {
	environ func() []string
}

// Option configures a Runner.
type Option func(*Runner)

// WithEnviron replaces the source of the inherited environment.
func WithEnviron(environ func() []string) Option {
	return func(r *Runner) {
		r.environ = environ
	}
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{environ: os.Environ}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the process described by spec and waits for it. Both output pipes are
// drained concurrently before the exit status is read.
func (r *Runner) Run(ctx context.Context, spec ports.ProcessSpec) (ports.ProcessResult, error) {
	if len(spec.Argv) == 0 {
		return ports.ProcessResult{}, domain.ErrEmptyCommand
	}

	name := spec.Argv[0]
	env := resolveEnvironment(r.environ(), spec.Env, spec.Hermetic)

	executable := name
	if !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, spec.Argv[1:]...) //nolint:gosec // user provided command
	cmd.Args[0] = name
	cmd.Dir = spec.Dir
	cmd.Env = env

	if spec.Stdin != "" {
		stdin, err := os.Open(resolveIn(spec.Dir, spec.Stdin)) //nolint:gosec // stdin file staged by the caller
		if err != nil {
			return ports.ProcessResult{}, zerr.With(domain.WrapKind(err, domain.ErrProcessStartFailed), "stdin", spec.Stdin)
		}
		defer stdin.Close() //nolint:errcheck // Read-only file
		cmd.Stdin = stdin
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return ports.ProcessResult{}, domain.WrapKind(err, domain.ErrProcessStartFailed)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return ports.ProcessResult{}, domain.WrapKind(err, domain.ErrProcessStartFailed)
	}

	if err := cmd.Start(); err != nil {
		return ports.ProcessResult{}, zerr.With(domain.WrapKind(err, domain.ErrProcessStartFailed), "command", name)
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error { return drain(&stdout, spec.Stdout, stdoutPipe) })
	g.Go(func() error { return drain(&stderr, spec.Stderr, stderrPipe) })
	drainErr := g.Wait()
	waitErr := cmd.Wait()

	result := ports.ProcessResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, zerr.With(zerr.Wrap(ctxErr, "process interrupted"), "command", name)
		}
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return result, zerr.With(zerr.Wrap(waitErr, "command failed"), "command", name)
		}
		result.ExitStatus = exitErr.ExitCode()
	}
	if drainErr != nil {
		return result, zerr.With(zerr.Wrap(drainErr, "failed to read process output"), "command", name)
	}

	return result, nil
}

// LookPath resolves name through PATH. Names containing a separator are checked as-is.
func (r *Runner) LookPath(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if err := findExecutable(name); err != nil {
			return "", err
		}
		return name, nil
	}
	return lookPath(name, r.environ())
}

func drain(buf *bytes.Buffer, tee io.Writer, r io.Reader) error {
	var w io.Writer = buf
	if tee != nil {
		w = io.MultiWriter(buf, tee)
	}
	_, err := io.Copy(w, r)
	return err
}

func resolveIn(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// allowListedEnvVars are the system variables a hermetic run inherits.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"TERM":   {},
	"USER":   {},
	"PATH":   {},
	"TMPDIR": {},
	"LANG":   {},
}

// resolveEnvironment merges the system environment with the overrides. A PATH
// override is prepended to the inherited PATH.
func resolveEnvironment(sysEnv []string, overrides map[string]string, hermetic bool) []string {
	envMap := make(map[string]string, len(sysEnv))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; hermetic && !allowed {
			continue
		}
		envMap[k] = v
	}

	for k, v := range overrides {
		if k == "PATH" {
			if sysPath := envMap["PATH"]; sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by PATH in env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
