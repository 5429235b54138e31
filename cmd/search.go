package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alanpramil7/ytscout/internal/export"
	"github.com/alanpramil7/ytscout/internal/yt"
	"github.com/alanpramil7/ytscout/internal/yt/services"
)

var (
	startDate      string
	endDate        string
	order          string
	maxResults     int64
	searchPageSize int64
	withDetails    bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for YouTube videos published in a date window",
	Long: `Search for YouTube videos using the YouTube Data API. Results are paged
until --max videos are collected or the API runs out of results.

Examples:
  ytscout search "cats" --start 2024-01-01 --end 2024-02-01
  ytscout search "music" --start 2023-06-01 --end 2023-07-01 --max 200 --order viewCount
  ytscout search "cooking" --start 2024-01-01 --end 2024-01-08 --details --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := newClient(ctx)
		if err != nil {
			return err
		}

		table, err := services.NewSearchService(client).Search(ctx, yt.SearchQuery{
			Term:      args[0],
			StartDate: startDate,
			EndDate:   endDate,
			Order:     order,
			Budget:    maxResults,
			PageSize:  searchPageSize,
		})
		if err != nil {
			return err
		}

		if !withDetails || table.Len() == 0 {
			return emitTable(ctx, export.SearchCollection, table)
		}

		ids := make([]string, 0, table.Len())
		for _, r := range table.Rows {
			ids = append(ids, r.VideoID)
		}
		videos, err := services.NewVideoService(client).Details(ctx, ids)
		if err != nil {
			return err
		}
		return emit(ctx, export.VideoCollection, videos)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&startDate, "start", "", "Published on or after this date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&endDate, "end", "", "Published before this date (YYYY-MM-DD)")
	searchCmd.Flags().StringVarP(&order, "order", "o", "relevance", "Order of results (date, rating, relevance, title, videoCount, viewCount)")
	searchCmd.Flags().Int64VarP(&maxResults, "max", "m", yt.DefaultSearchBudget, "Maximum number of results to collect")
	searchCmd.Flags().Int64Var(&searchPageSize, "page-size", 0, "Results per request, 1-50 (default 50)")
	searchCmd.Flags().BoolVar(&withDetails, "details", false, "Fetch duration and statistics for every result")
	_ = searchCmd.MarkFlagRequired("start")
	_ = searchCmd.MarkFlagRequired("end")
}
