package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.trai.ch/mockcode/internal/core/domain"
	"go.trai.ch/mockcode/internal/ui/output"
	"go.trai.ch/mockcode/internal/ui/style"
)

func (c *CLI) newFixturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fixtures",
		Aliases: []string{"fx"},
		Short:   "Inspect and remove recorded executions",
	}
	cmd.AddCommand(c.newFixturesListCmd())
	cmd.AddCommand(c.newFixturesShowCmd())
	cmd.AddCommand(c.newFixturesRmCmd())
	return cmd
}

func (c *CLI) newFixturesListCmd() *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fixtures in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo := c.components.App.Repository("")
			refs, err := repo.List(label)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			out := output.New(w)
			if len(refs) == 0 {
				_, err := fmt.Fprintln(w, output.Paint(out, "no fixtures in "+repo.Root(), style.Slate))
				return err
			}
			for _, ref := range refs {
				if _, err := fmt.Fprintf(w, "%-24s %s\n", ref.Label, ref.Identity); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "Only list fixtures of this code")
	return cmd
}

func (c *CLI) newFixturesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <label> <identity>",
		Short: "Verify a fixture and print its contents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseIdentity(args[1])
			if err != nil {
				return err
			}
			entry, err := c.components.App.Repository("").Load(args[0], id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			out := output.New(w)
			status := output.Paint(out, style.Check+" exit "+strconv.Itoa(entry.ExitStatus), style.Green)
			if entry.ExitStatus != 0 {
				status = output.Paint(out, style.Cross+" exit "+strconv.Itoa(entry.ExitStatus), style.Red)
			}

			lines := []string{
				output.Paint(out, domain.FixtureDirName(entry.Label, entry.Identity), style.Iris),
				"  path     " + entry.Dir,
				"  created  " + entry.CreatedAt.Format("2006-01-02 15:04:05 MST"),
				"  status   " + status,
				"  stdout   " + strconv.Itoa(len(entry.Stdout)) + " bytes",
				"  stderr   " + strconv.Itoa(len(entry.Stderr)) + " bytes",
			}
			if len(entry.Command) > 0 {
				lines = append(lines, "  command  "+fmt.Sprint(entry.Command))
			}
			lines = append(lines, "  files")
			for _, f := range entry.Files {
				lines = append(lines, fmt.Sprintf("    %s %-40s %8d  %s", f.Mode.Perm(), f.Path, f.Size, f.Checksum))
			}
			for _, line := range lines {
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *CLI) newFixturesRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <label> <identity>",
		Short: "Remove a fixture",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := domain.ParseIdentity(args[1])
			if err != nil {
				return err
			}
			if err := c.components.App.Repository("").Remove(args[0], id); err != nil {
				return err
			}
			c.components.Logger.Info("removed " + domain.FixtureDirName(args[0], id))
			return nil
		},
	}
}
