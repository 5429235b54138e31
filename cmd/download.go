package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alanpramil7/ytscout/internal/yt/services"
)

var audioDir string

var downloadCmd = &cobra.Command{
	Use:   "download [videoId|url...]",
	Short: "Download the audio of videos as <id>.mp4",
	Long: `Download the audio-only stream of each video into the audio directory.
The 128kbps AAC stream is preferred, the 48kbps one is used otherwise.

Examples:
  ytscout download dQw4w9WgXcQ
  ytscout download https://www.youtube.com/watch?v=dQw4w9WgXcQ --dir /tmp/audio`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := audioDir
		if dir == "" {
			dir = cfg.AudioDir
		}

		paths, err := services.NewAudioService(nil).Download(cmd.Context(), args, dir)
		for _, p := range paths {
			fmt.Println(p)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&audioDir, "dir", "d", "", "Target directory (default $AUDIO_DIR or content/audio)")
}
