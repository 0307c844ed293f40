package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradenote CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tradenote version %s\n", version)
		fmt.Println("A chat bot that books trade and note records from free-text messages")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
