package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/youtube/v3"

	"github.com/alanpramil7/ytscout/internal/yt"
	"github.com/alanpramil7/ytscout/internal/yt/pager"
)

// PlaylistService interface for YouTube playlist operations
type PlaylistService interface {
	Items(ctx context.Context, q yt.PlaylistQuery) (yt.PlaylistTable, error)
}

type playlistService struct {
	ytClient *yt.Client
}

// NewPlaylistService creates a new playlist service instance
func NewPlaylistService(ytClient *yt.Client) PlaylistService {
	return &playlistService{
		ytClient: ytClient,
	}
}

// Items retrieves the videos of a playlist in playlist order.
func (p *playlistService) Items(ctx context.Context, q yt.PlaylistQuery) (yt.PlaylistTable, error) {
	if strings.TrimSpace(q.PlaylistID) == "" {
		return yt.PlaylistTable{}, fmt.Errorf("%w: playlist id is required", yt.ErrInvalidArgument)
	}
	budget := q.Budget
	if budget == 0 {
		budget = pager.Unlimited
	}

	fetch := func(ctx context.Context, pageToken string, size int64) (pager.Page[yt.PlaylistRow], error) {
		call := p.ytClient.Service().PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(q.PlaylistID).
			MaxResults(size).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := yt.Do(ctx, p.ytClient, "playlistItems", func() (*youtube.PlaylistItemListResponse, error) {
			return call.Do()
		})
		if err != nil {
			return pager.Page[yt.PlaylistRow]{}, fmt.Errorf("error fetching playlist items: %w", err)
		}

		rows := make([]yt.PlaylistRow, 0, len(response.Items))
		for _, item := range response.Items {
			if item.Snippet == nil || item.ContentDetails == nil {
				continue
			}
			rows = append(rows, yt.PlaylistRow{
				VideoID:      item.ContentDetails.VideoId,
				Title:        item.Snippet.Title,
				ChannelTitle: item.Snippet.VideoOwnerChannelTitle,
				Position:     item.Snippet.Position,
				PublishedAt:  yt.ParseTime(item.ContentDetails.VideoPublishedAt),
			})
		}
		return pager.Page[yt.PlaylistRow]{Items: rows, NextPageToken: response.NextPageToken}, nil
	}

	table := pager.Collect(ctx, pager.New(fetch, budget, yt.PlaylistPageCap), func(r yt.PlaylistRow) []yt.PlaylistRow {
		return []yt.PlaylistRow{r}
	})
	report("playlistItems", table)
	return table, nil
}
