package cmd

import (
	"encoding/json"
	"fmt"

	"KestrelFM/config"
	"KestrelFM/core/library"
	"KestrelFM/logger"

	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library [share-slug]",
	Short: "Scan the media tree and print the library as JSON",
	Long: `Scans MUSIC_DIR and prints the resulting library snapshot. With a share
slug argument the output is restricted to the matching track or album.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     14,
		})

		filter := ""
		if len(args) == 1 {
			filter = args[0]
		}
		lib := library.NewScanner(cfg).Scan(filter)

		out, err := json.MarshalIndent(lib, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
}
