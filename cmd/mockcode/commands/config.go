package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/core/ports"
	"go.trai.ch/mockcode/internal/ui/output"
	"go.trai.ch/mockcode/internal/ui/style"
	"go.trai.ch/zerr"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the testing config",
	}
	cmd.AddCommand(c.newConfigListCmd())
	cmd.AddCommand(c.newConfigGetCmd())
	cmd.AddCommand(c.newConfigSetCmd())
	cmd.AddCommand(c.newConfigUnsetCmd())
	return cmd
}

func (c *CLI) openConfig() (ports.ConfigStore, error) {
	return c.components.App.Config(workdirOrCwd(""))
}

func (c *CLI) newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.openConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			out := output.New(w)
			labels := cfg.Labels()
			if len(labels) == 0 {
				_, err := fmt.Fprintln(w, output.Paint(out, "no codes configured in "+cfg.Path(), style.Slate))
				return err
			}
			if _, err := fmt.Fprintln(w, output.Paint(out, cfg.Path(), style.Iris)); err != nil {
				return err
			}
			for _, label := range labels {
				entry, _ := cfg.Get(label)
				if err := printEntry(w, label, entry); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *CLI) newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <label>",
		Short: "Print the config entry for a code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.openConfig()
			if err != nil {
				return err
			}
			entry, ok := cfg.Get(args[0])
			if !ok {
				return zerr.With(zerr.New("no config entry for code"), "label", args[0])
			}
			return printEntry(cmd.OutOrStdout(), args[0], entry)
		},
	}
}

func (c *CLI) newConfigSetCmd() *cobra.Command {
	var policy string
	cmd := &cobra.Command{
		Use:   "set <label> <executable>",
		Short: "Record the executable for a code",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := domain.ValidateLabel(args[0]); err != nil {
				return err
			}
			p, err := domain.ParseResolutionPolicy(policy)
			if err != nil {
				return err
			}
			cfg, err := c.openConfig()
			if err != nil {
				return err
			}
			cfg.Set(args[0], domain.CodeConfig{Executable: args[1], Policy: p})
			if err := cfg.Persist(); err != nil {
				return err
			}
			c.components.Logger.Info("set " + args[0] + " in " + cfg.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&policy, "policy", "", "Resolution policy for this code: skip-if-missing, require or generate")
	return cmd
}

func (c *CLI) newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <label>",
		Short: "Remove the config entry for a code",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := c.openConfig()
			if err != nil {
				return err
			}
			if _, ok := cfg.Get(args[0]); !ok {
				c.components.Logger.Warn("no config entry for " + args[0])
				return nil
			}
			cfg.Unset(args[0])
			if err := cfg.Persist(); err != nil {
				return err
			}
			c.components.Logger.Info("unset " + args[0] + " in " + cfg.Path())
			return nil
		},
	}
}

func printEntry(w io.Writer, label string, entry domain.CodeConfig) error {
	executable := entry.Executable
	if executable == "" {
		executable = "-"
	}
	policy := string(entry.Policy.Or(domain.PolicySkipIfMissing))
	_, err := fmt.Fprintf(w, "%-24s %-40s %s\n", label, executable, policy)
	return err
}
