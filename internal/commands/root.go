// Package commands wires the CLI: the interactive timeline is the root
// command, with agenda, init, and version alongside it.
package commands

import (
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planview",
		Short: "A draggable timeline over your note vault's tasks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, args)
		},
	}
	cmd.Flags().IntVarP(&numDays, "days", "n", 3, "Number of day columns to show.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAgenda(topLevel)
	addInit(topLevel)
	addVersion(topLevel)
}
