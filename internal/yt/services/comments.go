package services

import (
	"context"
	"fmt"

	"google.golang.org/api/youtube/v3"

	"github.com/alanpramil7/ytscout/internal/logging"
	"github.com/alanpramil7/ytscout/internal/yt"
	"github.com/alanpramil7/ytscout/internal/yt/pager"
)

// CommentService interface for YouTube comment-thread operations
type CommentService interface {
	// Comments collects the threads of a video flattened to one row per
	// comment: each top-level comment followed by its replies.
	Comments(ctx context.Context, q yt.CommentsQuery) (yt.CommentTable, error)

	// Threads returns a lazy iterator over the raw comment threads.
	Threads(q yt.CommentsQuery) (*pager.Iterator[*youtube.CommentThread], error)
}

type commentService struct {
	client *yt.Client
}

// NewCommentService creates a new comment service instance
func NewCommentService(client *yt.Client) CommentService {
	return &commentService{client: client}
}

func (s *commentService) Comments(ctx context.Context, q yt.CommentsQuery) (yt.CommentTable, error) {
	it, err := s.Threads(q)
	if err != nil {
		return yt.CommentTable{}, err
	}

	withReplies := !q.TopLevelOnly
	table := pager.Collect(ctx, it, func(t *youtube.CommentThread) []yt.CommentRow {
		return FlattenThread(t, withReplies)
	})
	report("commentThreads", table)
	return table, nil
}

func (s *commentService) Threads(q yt.CommentsQuery) (*pager.Iterator[*youtube.CommentThread], error) {
	req, err := q.Validate()
	if err != nil {
		return nil, err
	}

	logging.Logger.Debug().
		Str("video_id", q.VideoID).
		Strs("parts", req.Parts).
		Str("order", req.Order).
		Msg("listing comment threads")

	fetch := func(ctx context.Context, pageToken string, size int64) (pager.Page[*youtube.CommentThread], error) {
		call := s.client.Service().CommentThreads.List(req.Parts).
			VideoId(q.VideoID).
			Order(req.Order).
			MaxResults(size).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := yt.Do(ctx, s.client, "commentThreads", func() (*youtube.CommentThreadListResponse, error) {
			return call.Do()
		})
		if err != nil {
			return pager.Page[*youtube.CommentThread]{}, fmt.Errorf("error fetching comment threads: %w", err)
		}
		return pager.Page[*youtube.CommentThread]{Items: response.Items, NextPageToken: response.NextPageToken}, nil
	}

	return pager.New(fetch, req.Budget, req.PageSize), nil
}

// FlattenThread turns a thread into its top-level comment row followed by
// one row per reply, in the order the API returned them.
func FlattenThread(thread *youtube.CommentThread, withReplies bool) []yt.CommentRow {
	if thread == nil || thread.Snippet == nil || thread.Snippet.TopLevelComment == nil {
		return nil
	}

	rows := []yt.CommentRow{commentRow(thread.Snippet.TopLevelComment, thread.Snippet.VideoId)}
	if withReplies && thread.Replies != nil {
		for _, reply := range thread.Replies.Comments {
			if reply == nil {
				continue
			}
			rows = append(rows, commentRow(reply, thread.Snippet.VideoId))
		}
	}
	return rows
}

func commentRow(c *youtube.Comment, threadVideoID string) yt.CommentRow {
	row := yt.CommentRow{ID: c.Id, VideoID: threadVideoID}
	if c.Snippet == nil {
		return row
	}

	sn := c.Snippet
	if sn.VideoId != "" {
		row.VideoID = sn.VideoId
	}
	row.TextOriginal = sn.TextOriginal
	row.AuthorDisplayName = sn.AuthorDisplayName
	if sn.AuthorChannelId != nil {
		row.AuthorChannelID = sn.AuthorChannelId.Value
	}
	row.LikeCount = sn.LikeCount
	row.PublishedAt = yt.ParseTime(sn.PublishedAt)
	row.UpdatedAt = yt.ParseTime(sn.UpdatedAt)
	row.ParentID = sn.ParentId
	return row
}
