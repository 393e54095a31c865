package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lowitz/planview/internal/config"
)

func addInit(topLevel *cobra.Command) {
	force := false

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file.",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
			if err := config.Save(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config.")
	topLevel.AddCommand(cmd)
}
