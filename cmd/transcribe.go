package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alanpramil7/ytscout/internal/transcribe"
)

var whisperModel string

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [file...]",
	Short: "Transcribe downloaded audio files with Whisper",
	Long: `Transcribe audio files from the audio directory with the whisper CLI.
Transcripts are printed in argument order, separated by blank lines.

Examples:
  ytscout transcribe dQw4w9WgXcQ.mp4
  ytscout transcribe a.mp4 b.mp4 --model small --dir /tmp/audio`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := audioDir
		if dir == "" {
			dir = cfg.AudioDir
		}
		size := whisperModel
		if size == "" {
			size = cfg.WhisperModel
		}

		model, err := transcribe.NewWhisper(transcribe.ModelSize(size), transcribe.WithBinary(cfg.WhisperBin))
		if err != nil {
			return err
		}

		texts, err := transcribe.Files(cmd.Context(), model, dir, args)
		for i, text := range texts {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("# %s\n%s\n", args[i], text)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().StringVarP(&audioDir, "dir", "d", "", "Directory holding the files (default $AUDIO_DIR or content/audio)")
	transcribeCmd.Flags().StringVarP(&whisperModel, "model", "m", "", "Whisper model (tiny, base, small, medium, large; default $WHISPER_MODEL or base)")
}
