package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alanpramil7/ytscout/internal/export"
	"github.com/alanpramil7/ytscout/internal/yt"
	"github.com/alanpramil7/ytscout/internal/yt/services"
)

var playlistMax int64

// playlistCmd represents the playlist command
var playlistCmd = &cobra.Command{
	Use:   "playlist [playlistId]",
	Short: "List the videos of a playlist",
	Long: `List the videos of a playlist in playlist order.

Examples:
  ytscout playlist PLFgquLnL59alCl_2TQvOiD5Vgm1hCaGSI
  ytscout playlist PLFgquLnL59alCl_2TQvOiD5Vgm1hCaGSI --max 10 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := newClient(ctx)
		if err != nil {
			return err
		}

		table, err := services.NewPlaylistService(client).Items(ctx, yt.PlaylistQuery{
			PlaylistID: args[0],
			Budget:     playlistMax,
		})
		if err != nil {
			return err
		}
		return emitTable(ctx, export.PlaylistCollection, table)
	},
}

func init() {
	rootCmd.AddCommand(playlistCmd)

	playlistCmd.Flags().Int64VarP(&playlistMax, "max", "m", 0, "Maximum number of items (0 for the whole playlist)")
}
