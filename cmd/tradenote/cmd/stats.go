package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ldyuan/tradenote/config"
	"github.com/ldyuan/tradenote/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <partner>",
	Short: "Print a partner's ledger statistics",
	Long: `Print the detailed statistics for one partner's ledger without
starting the bot.

Example:
  tradenote stats 记账群 -f tradenote.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

var statsConfigPath string

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	statsCmd.MarkFlagRequired("config")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(statsConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	sum, err := st.Stats(args[0], true)
	if err != nil {
		return fmt.Errorf("stats for %s: %w", args[0], err)
	}

	fmt.Println(sum.Text())
	return nil
}
