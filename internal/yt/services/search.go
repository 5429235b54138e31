package services

import (
	"context"
	"fmt"

	"google.golang.org/api/youtube/v3"

	"github.com/alanpramil7/ytscout/internal/logging"
	"github.com/alanpramil7/ytscout/internal/yt"
	"github.com/alanpramil7/ytscout/internal/yt/pager"
)

// SearchService interface for YouTube search operations
type SearchService interface {
	// Search collects up to q.Budget videos. A failed page ends the search
	// early; the rows gathered before it are returned with Table.FetchErr set.
	Search(ctx context.Context, q yt.SearchQuery) (yt.SearchTable, error)

	// Rows returns a lazy iterator over the same results.
	Rows(q yt.SearchQuery) (*pager.Iterator[yt.SearchRow], error)
}

type searchService struct {
	client *yt.Client
}

// NewSearchService creates a new search service instance
func NewSearchService(client *yt.Client) SearchService {
	return &searchService{client: client}
}

func (s *searchService) Search(ctx context.Context, q yt.SearchQuery) (yt.SearchTable, error) {
	it, err := s.Rows(q)
	if err != nil {
		return yt.SearchTable{}, err
	}

	table := pager.Collect(ctx, it, func(r yt.SearchRow) []yt.SearchRow { return []yt.SearchRow{r} })
	report("search", table)
	return table, nil
}

func (s *searchService) Rows(q yt.SearchQuery) (*pager.Iterator[yt.SearchRow], error) {
	w, err := q.Validate()
	if err != nil {
		return nil, err
	}

	logging.Logger.Debug().
		Str("query", q.Term).
		Str("after", w.PublishedAfter).
		Str("before", w.PublishedBefore).
		Str("order", w.Order).
		Int64("budget", q.Budget).
		Msg("searching videos")

	return pager.New(s.fetchPage(q.Term, w), q.Budget, w.PageSize), nil
}

func (s *searchService) fetchPage(term string, w yt.SearchWindow) pager.FetchFunc[yt.SearchRow] {
	return func(ctx context.Context, pageToken string, size int64) (pager.Page[yt.SearchRow], error) {
		call := s.client.Service().Search.List([]string{"snippet"}).
			Q(term).
			Type("video").
			Order(w.Order).
			PublishedAfter(w.PublishedAfter).
			PublishedBefore(w.PublishedBefore).
			MaxResults(size).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := yt.Do(ctx, s.client, "search", func() (*youtube.SearchListResponse, error) {
			return call.Do()
		})
		if err != nil {
			return pager.Page[yt.SearchRow]{}, fmt.Errorf("error executing search: %w", err)
		}

		rows := make([]yt.SearchRow, 0, len(response.Items))
		for _, item := range response.Items {
			if item.Id == nil || item.Snippet == nil {
				continue
			}
			rows = append(rows, yt.SearchRow{
				VideoID:       item.Id.VideoId,
				VideoTitle:    item.Snippet.Title,
				ChannelID:     item.Snippet.ChannelId,
				ChannelTitle:  item.Snippet.ChannelTitle,
				PublishedTime: yt.ParseTime(item.Snippet.PublishedAt),
			})
		}

		return pager.Page[yt.SearchRow]{Items: rows, NextPageToken: response.NextPageToken}, nil
	}
}
