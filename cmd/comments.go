package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alanpramil7/ytscout/internal/export"
	"github.com/alanpramil7/ytscout/internal/yt"
	"github.com/alanpramil7/ytscout/internal/yt/services"
)

var (
	commentLimit    string
	commentOrder    string
	topLevelOnly    bool
	commentPageSize int64
)

var commentsCmd = &cobra.Command{
	Use:   "comments [videoId]",
	Short: "List the comments of a video, replies included",
	Long: `List the comment threads of a video. Every top-level comment is followed
by its replies unless --top-level-only is given. --limit counts threads.

Examples:
  ytscout comments dQw4w9WgXcQ
  ytscout comments dQw4w9WgXcQ --limit top_500 --order relevance --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := newClient(ctx)
		if err != nil {
			return err
		}

		table, err := services.NewCommentService(client).Comments(ctx, yt.CommentsQuery{
			VideoID:      args[0],
			Limit:        yt.CommentLimit(commentLimit),
			Order:        commentOrder,
			TopLevelOnly: topLevelOnly,
			PageSize:     commentPageSize,
		})
		if err != nil {
			return err
		}
		return emitTable(ctx, export.CommentCollection, table)
	},
}

func init() {
	rootCmd.AddCommand(commentsCmd)

	commentsCmd.Flags().StringVarP(&commentLimit, "limit", "l", string(yt.CommentsAll), "Threads to collect (all, top_100, top_500)")
	commentsCmd.Flags().StringVarP(&commentOrder, "order", "o", "time", "Order of threads (time, relevance)")
	commentsCmd.Flags().BoolVar(&topLevelOnly, "top-level-only", false, "Skip replies")
	commentsCmd.Flags().Int64Var(&commentPageSize, "page-size", 0, "Threads per request, 1-100 (default 100)")
}
