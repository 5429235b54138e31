package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/youtube/v3"

	"github.com/alanpramil7/ytscout/internal/yt"
)

// VideoService interface for YouTube video metadata
type VideoService interface {
	Details(ctx context.Context, videoIDs []string) ([]yt.VideoRow, error)
}

type videoService struct {
	client *yt.Client
}

// NewVideoService creates a new video service instance
func NewVideoService(client *yt.Client) VideoService {
	return &videoService{client: client}
}

// Details retrieves snippet, content details and statistics for the given
// ids, up to 50 per request. Ids the API does not know are left out.
func (s *videoService) Details(ctx context.Context, videoIDs []string) ([]yt.VideoRow, error) {
	ids := make([]string, 0, len(videoIDs))
	for _, id := range videoIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one video id is required", yt.ErrInvalidArgument)
	}

	rows := make([]yt.VideoRow, 0, len(ids))
	for start := 0; start < len(ids); start += yt.VideoBatchCap {
		batch := ids[start:min(start+yt.VideoBatchCap, len(ids))]

		call := s.client.Service().Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(batch...).
			Context(ctx)

		response, err := yt.Do(ctx, s.client, "videos", func() (*youtube.VideoListResponse, error) {
			return call.Do()
		})
		if err != nil {
			return nil, fmt.Errorf("error getting video details: %w", err)
		}

		for _, video := range response.Items {
			rows = append(rows, videoRow(video))
		}
	}

	return rows, nil
}

func videoRow(video *youtube.Video) yt.VideoRow {
	row := yt.VideoRow{VideoID: video.Id}
	if sn := video.Snippet; sn != nil {
		row.Title = sn.Title
		row.Description = sn.Description
		row.ChannelID = sn.ChannelId
		row.ChannelTitle = sn.ChannelTitle
		row.PublishedAt = yt.ParseTime(sn.PublishedAt)
		row.Tags = sn.Tags
		row.ThumbnailURL = getBestThumbnail(sn.Thumbnails)
	}
	if video.ContentDetails != nil {
		row.Duration = video.ContentDetails.Duration
	}
	if st := video.Statistics; st != nil {
		row.ViewCount = st.ViewCount
		row.LikeCount = st.LikeCount
		row.CommentCount = st.CommentCount
	}
	return row
}

// getBestThumbnail returns the URL of the best available thumbnail
func getBestThumbnail(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}

	for _, t := range []*youtube.Thumbnail{thumbnails.Maxres, thumbnails.Standard, thumbnails.High, thumbnails.Medium, thumbnails.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}
