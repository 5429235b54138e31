package yt

import (
	"strconv"
	"time"

	"github.com/alanpramil7/ytscout/internal/yt/pager"
)

// Service-imposed page caps.
const (
	SearchPageCap   int64 = 50
	CommentPageCap  int64 = 100
	VideoBatchCap         = 50
	PlaylistPageCap int64 = 50
)

// DefaultSearchBudget mirrors one full search page.
const DefaultSearchBudget int64 = 50

// Search orderings accepted by search.list.
var SearchOrders = []string{"date", "rating", "relevance", "title", "videoCount", "viewCount"}

// Comment thread orderings accepted by commentThreads.list.
var CommentOrders = []string{"time", "relevance"}

// SearchQuery describes one video search.
type SearchQuery struct {
	Term      string
	StartDate string // YYYY-MM-DD, inclusive lower bound
	EndDate   string // YYYY-MM-DD, exclusive upper bound
	Order     string // empty means relevance
	Budget    int64  // total rows wanted; <= 0 yields an empty table
	PageSize  int64  // 0 means SearchPageCap
}

// CommentLimit is how many comment threads to collect. It counts threads,
// not rows: with replies included a table can hold more rows than the limit.
type CommentLimit string

const (
	CommentsAll    CommentLimit = "all"
	CommentsTop100 CommentLimit = "top_100"
	CommentsTop500 CommentLimit = "top_500"
)

// Budget returns the thread budget for the limit.
func (l CommentLimit) Budget() int64 {
	switch l {
	case CommentsTop100:
		return 100
	case CommentsTop500:
		return 500
	default:
		return pager.Unlimited
	}
}

// CommentsQuery describes a comment-thread listing for one video.
type CommentsQuery struct {
	VideoID      string
	Limit        CommentLimit // empty means all
	Order        string       // empty means time
	TopLevelOnly bool         // skip replies entirely
	PageSize     int64        // 0 means CommentPageCap
}

// PlaylistQuery describes a playlist listing.
type PlaylistQuery struct {
	PlaylistID string
	Budget     int64 // 0 means every item
}

// SearchRow is one flattened search result.
type SearchRow struct {
	VideoID       string    `json:"video_id" bson:"video_id"`
	VideoTitle    string    `json:"video_title" bson:"video_title"`
	ChannelID     string    `json:"channel_id" bson:"channel_id"`
	ChannelTitle  string    `json:"channel_title" bson:"channel_title"`
	PublishedTime time.Time `json:"published_time" bson:"published_time"`
}

// CommentRow is one flattened comment, either top-level or a reply.
type CommentRow struct {
	ID                string    `json:"id" bson:"id"`
	VideoID           string    `json:"video_id" bson:"video_id"`
	TextOriginal      string    `json:"text_original" bson:"text_original"`
	AuthorDisplayName string    `json:"author_display_name" bson:"author_display_name"`
	AuthorChannelID   string    `json:"author_channel_id" bson:"author_channel_id"`
	LikeCount         int64     `json:"like_count" bson:"like_count"`
	PublishedAt       time.Time `json:"published_at" bson:"published_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
	ParentID          string    `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
}

// IsReply reports whether the comment answers another one.
func (r CommentRow) IsReply() bool { return r.ParentID != "" }

// VideoRow holds the metadata of one video.
type VideoRow struct {
	VideoID      string    `json:"video_id" bson:"video_id"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	ChannelID    string    `json:"channel_id" bson:"channel_id"`
	ChannelTitle string    `json:"channel_title" bson:"channel_title"`
	PublishedAt  time.Time `json:"published_at" bson:"published_at"`
	Duration     string    `json:"duration" bson:"duration"` // ISO 8601, e.g. PT4M13S
	ViewCount    uint64    `json:"view_count" bson:"view_count"`
	LikeCount    uint64    `json:"like_count" bson:"like_count"`
	CommentCount uint64    `json:"comment_count" bson:"comment_count"`
	Tags         []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" bson:"thumbnail_url,omitempty"`
}

// PlaylistRow is one playlist entry.
type PlaylistRow struct {
	VideoID      string    `json:"video_id" bson:"video_id"`
	Title        string    `json:"title" bson:"title"`
	ChannelTitle string    `json:"channel_title" bson:"channel_title"`
	Position     int64     `json:"position" bson:"position"`
	PublishedAt  time.Time `json:"published_at" bson:"published_at"`
}

// Result tables.
type (
	SearchTable   = pager.Table[SearchRow]
	CommentTable  = pager.Table[CommentRow]
	PlaylistTable = pager.Table[PlaylistRow]
)

// WatchURL returns the watch page for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func (r SearchRow) Key() string { return r.VideoID }

func (r SearchRow) Columns() []string {
	return []string{"video_id", "video_title", "channel_id", "channel_title", "published_time"}
}

func (r SearchRow) Record() []string {
	return []string{r.VideoID, r.VideoTitle, r.ChannelID, r.ChannelTitle, formatTime(r.PublishedTime)}
}

func (r CommentRow) Key() string { return r.ID }

func (r CommentRow) Columns() []string {
	return []string{"id", "video_id", "text_original", "author_display_name", "author_channel_id",
		"like_count", "published_at", "updated_at", "parent_id"}
}

func (r CommentRow) Record() []string {
	return []string{r.ID, r.VideoID, r.TextOriginal, r.AuthorDisplayName, r.AuthorChannelID,
		strconv.FormatInt(r.LikeCount, 10), formatTime(r.PublishedAt), formatTime(r.UpdatedAt), r.ParentID}
}

func (r VideoRow) Key() string { return r.VideoID }

func (r VideoRow) Columns() []string {
	return []string{"video_id", "title", "channel_id", "channel_title", "published_at",
		"duration", "view_count", "like_count", "comment_count"}
}

func (r VideoRow) Record() []string {
	return []string{r.VideoID, r.Title, r.ChannelID, r.ChannelTitle, formatTime(r.PublishedAt),
		r.Duration, strconv.FormatUint(r.ViewCount, 10), strconv.FormatUint(r.LikeCount, 10),
		strconv.FormatUint(r.CommentCount, 10)}
}

func (r PlaylistRow) Key() string { return r.VideoID }

func (r PlaylistRow) Columns() []string {
	return []string{"position", "video_id", "title", "channel_title", "published_at"}
}

func (r PlaylistRow) Record() []string {
	return []string{strconv.FormatInt(r.Position, 10), r.VideoID, r.Title, r.ChannelTitle, formatTime(r.PublishedAt)}
}

// ParseTime parses an API timestamp, returning the zero time for empty or
// malformed input.
func ParseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
