package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alanpramil7/ytscout/internal/config"
	"github.com/alanpramil7/ytscout/internal/logging"
	"github.com/alanpramil7/ytscout/internal/metrics"
	"github.com/alanpramil7/ytscout/internal/tui"
)

var (
	cfg *config.Config

	outputFormat string
	metricsFile  string
	storeResults bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytscout",
	Short: "Collect YouTube search results, comments and audio",
	Long: `ytscout pages through the YouTube Data API and flattens what it finds
into tables: search results, comment threads, video details and playlists.
It can also download audio-only streams and transcribe them with Whisper.

Examples:
  ytscout search "cats" --start 2024-01-01 --end 2024-02-01 --max 75
  ytscout comments dQw4w9WgXcQ --limit top_100 --format csv
  ytscout download dQw4w9WgXcQ && ytscout transcribe dQw4w9WgXcQ.mp4
  ytscout  # Launch interactive TUI`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if metricsFile == "" {
			metricsFile = cfg.MetricsFile
		}
		logging.Init(cfg.LogLevel, nil)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsFile == "" {
			return nil
		}
		return metrics.WriteTextfile(metricsFile)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		// the alt screen owns stderr while the TUI runs
		logFile, err := logging.InitFile(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			logging.Init(cfg.LogLevel, io.Discard)
		} else {
			defer logFile.Close()
		}

		app := tui.NewApp(tui.Deps{
			Client:       client,
			AudioDir:     cfg.AudioDir,
			WhisperModel: cfg.WhisperModel,
			WhisperBin:   cfg.WhisperBin,
			FFmpegBin:    cfg.FFmpegBin,
		})
		program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err = program.Run()
		app.Close()
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (table, csv, json)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit (default $METRICS_FILE)")
	rootCmd.PersistentFlags().BoolVar(&storeResults, "store", false, "Also upsert results into MongoDB ($MONGO_URI)")
}
