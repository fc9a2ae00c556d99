package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/mockcode/internal/app"
	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/zerr"
)

// Environment fallbacks for the run and hash flags, so that the binary can stand in
// for a real executable that is called without mockcode's own arguments.
const (
	EnvLabel          = "MOCKCODE_LABEL"
	EnvExecutableName = "MOCKCODE_EXECUTABLE_NAME"
	EnvIgnore         = "MOCKCODE_IGNORE"
)

type runFlags struct {
	label              string
	workdir            string
	executableName     string
	ignore             []string
	capture            []string
	configAction       string
	regenerate         bool
	failOnMissing      bool
	degrade            bool
	disableParallelism bool
	cacheFailures      bool
	hermetic           bool
	prepend            string
	stdin              string
	stdout             string
	stderr             string
	env                []string
}

func (c *CLI) newRunCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [flags] [-- args...]",
		Short: "Replay a recorded execution or run the real code and record it",
		Long: "Run hashes the inputs staged in the working directory. When a fixture with the same\n" +
			"identity exists its outputs are replayed; otherwise the real executable runs and its\n" +
			"outputs are recorded. The process exits with the recorded or real exit status.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.label, "label", "l", "", "Code label (env "+EnvLabel+")")
	flags.StringVarP(&f.workdir, "workdir", "C", ".", "Staged working directory")
	flags.StringVar(&f.executableName, "executable-name", "", "Executable looked up on PATH when the config has no entry (env "+EnvExecutableName+")")
	flags.StringArrayVarP(&f.ignore, "ignore", "i", nil, "Glob excluded from hashing and capture; prefix with ! to re-include (env "+EnvIgnore+", comma separated)")
	flags.StringArrayVar(&f.capture, "capture", nil, "Glob rules for captured outputs; defaults to the ignore rules")
	flags.StringVar(&f.configAction, "config-action", "", "Resolution policy: skip-if-missing, require or generate (env "+app.EnvConfigAction+")")
	flags.BoolVar(&f.regenerate, "regenerate", false, "Ignore any fixture and record a new one (env "+app.EnvRegenerate+")")
	flags.BoolVar(&f.failOnMissing, "fail-on-missing", false, "Fail on any cache miss (env "+app.EnvFailOnMissing+")")
	flags.BoolVar(&f.degrade, "degrade", false, "Skip execution instead of failing when nothing can run")
	flags.BoolVar(&f.disableParallelism, "disable-parallelism", false, "Drop the launcher and force a single thread")
	flags.BoolVar(&f.cacheFailures, "cache-failures", false, "Record fixtures for non-zero exit statuses too")
	flags.BoolVar(&f.hermetic, "hermetic", false, "Pass only HOME, PATH, TERM, TMPDIR, USER, LANG and --env to the real process")
	flags.StringVar(&f.prepend, "prepend", "", "Launcher placed before the executable, e.g. \"mpirun -np 4\"")
	flags.StringVar(&f.stdin, "stdin", "", "File in the working directory fed to standard input")
	flags.StringVar(&f.stdout, "stdout", "", "File in the working directory receiving standard output")
	flags.StringVar(&f.stderr, "stderr", "", "File in the working directory receiving standard error")
	flags.StringArrayVarP(&f.env, "env", "e", nil, "Extra environment variable KEY=VALUE for the real process")

	return cmd
}

func (c *CLI) run(cmd *cobra.Command, f *runFlags, args []string) error {
	spec, err := c.codeSpec(cmd, f)
	if err != nil {
		return err
	}

	workdir, err := filepath.Abs(f.workdir)
	if err != nil {
		return zerr.With(domain.WrapKind(err, domain.ErrWorkDirNotFound), "workdir", f.workdir)
	}
	spec.ConfigDir = workdir

	a := c.components.App
	if cmd.Flags().Changed("regenerate") || cmd.Flags().Changed("fail-on-missing") {
		settings := a.Settings()
		if cmd.Flags().Changed("regenerate") {
			settings.Regenerate = f.regenerate
		}
		if cmd.Flags().Changed("fail-on-missing") {
			settings.FailOnMissing = f.failOnMissing
		}
		a.WithSettings(settings)
	}

	code, err := a.NewCode(spec)
	if err != nil {
		return err
	}

	res, err := code.Run(cmd.Context(), workdir, domain.CommandLine{
		Prepend:    strings.Fields(f.prepend),
		Args:       args,
		StdinName:  f.stdin,
		StdoutName: f.stdout,
		StderrName: f.stderr,
	})
	if err != nil {
		return err
	}

	// Streams redirected to files already live in the working directory.
	if f.stdout == "" {
		_, _ = cmd.OutOrStdout().Write(res.Stdout)
	}
	if f.stderr == "" {
		_, _ = cmd.ErrOrStderr().Write(res.Stderr)
	}

	if res.Source == domain.SourceMissing {
		c.exitCode = 0
		return nil
	}
	c.exitCode = res.ExitStatus
	return nil
}

func (c *CLI) codeSpec(cmd *cobra.Command, f *runFlags) (app.CodeSpec, error) {
	label := c.stringFlag(cmd, "label", f.label, EnvLabel)
	if label == "" {
		return app.CodeSpec{}, zerr.New("a code label is required (--label or " + EnvLabel + ")")
	}

	policy, err := domain.ParseResolutionPolicy(f.configAction)
	if err != nil {
		return app.CodeSpec{}, err
	}

	env, err := parseEnv(f.env)
	if err != nil {
		return app.CodeSpec{}, err
	}

	return app.CodeSpec{
		Label:              label,
		ExecutableName:     c.stringFlag(cmd, "executable-name", f.executableName, EnvExecutableName),
		IgnorePatterns:     c.patterns(cmd, f.ignore),
		CapturePatterns:    f.capture,
		ConfigAction:       policy,
		DisableParallelism: f.disableParallelism,
		Degrade:            f.degrade,
		CacheFailures:      f.cacheFailures,
		Hermetic:           f.hermetic,
		Env:                env,
	}, nil
}

// stringFlag returns the flag value, falling back to the environment when the flag is unset.
func (c *CLI) stringFlag(cmd *cobra.Command, name, value, envKey string) string {
	if cmd.Flags().Changed(name) {
		return value
	}
	if v, ok := c.lookupEnv(envKey); ok {
		return v
	}
	return value
}

// patterns returns the ignore rules, falling back to MOCKCODE_IGNORE and then to the
// submission script.
func (c *CLI) patterns(cmd *cobra.Command, flagValue []string) []string {
	if cmd.Flags().Changed("ignore") {
		return flagValue
	}
	if v, ok := c.lookupEnv(EnvIgnore); ok {
		return strings.Split(v, ",")
	}
	return []string{domain.DefaultSubmitScript}
}

func parseEnv(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, zerr.With(zerr.New("environment variable must be KEY=VALUE"), "env", p)
		}
		env[k] = v
	}
	return env, nil
}

func workdirOrCwd(dir string) string {
	if dir != "" {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
