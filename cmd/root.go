package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kestrelfm",
	Short: "KestrelFM is a personal artist music showcase player.",
	Long: `KestrelFM scans a media tree of singles and albums and plays it back
through an interactive console with the usual transport controls.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlayer("")
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
