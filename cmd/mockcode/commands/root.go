// Package commands implements the CLI commands for mockcode.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/mockcode/internal/adapters/telemetry"
	"go.trai.ch/mockcode/internal/app"
	"go.trai.ch/mockcode/internal/build"
	"go.trai.ch/zerr"
)

// Log formats accepted by --log-format.
const (
	LogFormatAuto   = "auto"
	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"
)

// formatLogger is implemented by the slog adapter; other loggers keep their format.
type formatLogger interface {
	SetJSON(enable bool)
	With(key string, value any)
}

// CLI represents the command line interface for mockcode.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
	lookupEnv  func(string) (string, bool)
	provider   *sdktrace.TracerProvider
	exitCode   int
}

// New creates a new CLI instance with the given components.
func New(components *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "mockcode",
		Short:         "Content-addressed mock execution cache for external codes",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.String(),
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("config", "", "Testing config file (env "+app.EnvConfig+")")
	rootCmd.PersistentFlags().String("data-dir", "", "Fixture data directory (env "+app.EnvDataDir+")")
	rootCmd.PersistentFlags().String("log-format", LogFormatAuto, "Log format: auto, pretty or json")
	rootCmd.PersistentFlags().Bool("trace", false, "Log a summary of every traced phase")

	c := &CLI{
		components: components,
		rootCmd:    rootCmd,
		lookupEnv:  os.LookupEnv,
	}

	rootCmd.PersistentPreRunE = c.setup
	rootCmd.PersistentPostRunE = c.teardown

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newHashCmd())
	rootCmd.AddCommand(c.newConfigCmd())
	rootCmd.AddCommand(c.newFixturesCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(stdout, stderr io.Writer) {
	c.rootCmd.SetOut(stdout)
	c.rootCmd.SetErr(stderr)
}

// SetEnv replaces the environment lookup. Used for testing.
func (c *CLI) SetEnv(lookup func(string) (string, bool)) {
	c.lookupEnv = lookup
}

// ExitCode is the status the process should exit with after a successful Execute.
// It carries the recorded or real exit status of a run.
func (c *CLI) ExitCode() int {
	return c.exitCode
}

// setup merges environment settings with the persistent flags and configures
// logging and tracing for the session.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	settings, err := app.SettingsFromEnv(c.lookupEnv)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("config") {
		settings.ConfigPath, _ = flags.GetString("config")
	}
	if flags.Changed("data-dir") {
		settings.DataDir, _ = flags.GetString("data-dir")
	}
	c.components.App.WithSettings(settings)

	if l, ok := c.components.Logger.(formatLogger); ok {
		format, _ := flags.GetString("log-format")
		switch format {
		case LogFormatAuto:
		case LogFormatPretty:
			l.SetJSON(false)
		case LogFormatJSON:
			l.SetJSON(true)
		default:
			return zerr.With(zerr.New("invalid log format"), "format", format)
		}
		l.With("session", c.components.App.SessionID())
	}

	if traceOn, _ := flags.GetBool("trace"); traceOn {
		c.provider = telemetry.NewTracingProvider(c.components.Logger)
		otel.SetTracerProvider(c.provider)
	}
	return nil
}

func (c *CLI) teardown(cmd *cobra.Command, _ []string) error {
	if c.provider == nil {
		return nil
	}
	return c.provider.Shutdown(cmd.Context())
}
