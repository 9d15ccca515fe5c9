package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappyq/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the built-in config",
	Long: `Print the embedded default config YAML. Save it, edit it and pass it
back with --config to train on a different world.

Examples:
  flappyq config > my-world.yaml
  flappyq train --config ./my-world.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
		return err
	},
}
