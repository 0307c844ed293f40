package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ldyuan/tradenote/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bot configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a configuration file populated with defaults, ready to edit.

Example:
  tradenote config init -o tradenote.yaml`,
	RunE: runConfigInit,
}

var configInitOutput string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "tradenote.yaml", "where to write the config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Wrote default config to %s\n", configInitOutput)
	return nil
}
