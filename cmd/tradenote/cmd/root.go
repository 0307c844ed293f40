package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradenote",
	Short: "A chat bot that books trade and note records from free-text messages",
	Long: `Tradenote listens to a fixed set of conversation partners, parses their
messages into trade or note records, asks for confirmation, and books the
confirmed records into a per-partner SQLite ledger.

It provides:
  - Delimiter-tolerant parsing of trade and note messages
  - A per-partner confirmation window with auto-confirm on silence
  - Ledger statistics on request
  - Single-level undo of the last booked record`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
