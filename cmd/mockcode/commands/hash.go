package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newHashCmd() *cobra.Command {
	var (
		label   string
		workdir string
		ignore  []string
	)
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the identity of the inputs staged in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			label = c.stringFlag(cmd, "label", label, EnvLabel)
			if label == "" {
				return zerr.New("a code label is required (--label or " + EnvLabel + ")")
			}
			id, err := c.components.App.Identity(label, workdir, c.patterns(cmd, ignore))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "Code label (env "+EnvLabel+")")
	cmd.Flags().StringVarP(&workdir, "workdir", "C", ".", "Staged working directory")
	cmd.Flags().StringArrayVarP(&ignore, "ignore", "i", nil, "Glob excluded from hashing (env "+EnvIgnore+", comma separated)")
	return cmd
}
