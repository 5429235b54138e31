package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alanpramil7/ytscout/internal/export"
	"github.com/alanpramil7/ytscout/internal/yt/services"
)

var videoCmd = &cobra.Command{
	Use:   "video [videoId...]",
	Short: "Show details and statistics of videos",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := newClient(ctx)
		if err != nil {
			return err
		}

		videos, err := services.NewVideoService(client).Details(ctx, args)
		if err != nil {
			return err
		}
		return emit(ctx, export.VideoCollection, videos)
	},
}

func init() {
	rootCmd.AddCommand(videoCmd)
}
