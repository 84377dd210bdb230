package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <share-slug>",
	Short: "Start the player on the track or album behind a share slug",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlayer(args[0])
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
