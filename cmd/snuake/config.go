package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snuake/internal/config"
)

var flagFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration snuake would run with after applying the
config file, the difficulty preset and flag overrides.

Config search order:
  1. --config <path>
  2. ~/.snuake/config.yaml
  3. ./configs/snuake.yaml
  4. built-in defaults

Examples:
  snuake config
  snuake config --difficulty hard --format toml > snuake.toml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagFormat, "format", "yaml", "Output format: yaml or toml")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg, flagFormat)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}
