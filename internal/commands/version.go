package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set by the build via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func addVersion(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the planview version.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("planview %s (%s)\n", version, commit)
		},
	}
	topLevel.AddCommand(cmd)
}
