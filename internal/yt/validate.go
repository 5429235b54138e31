package yt

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ErrInvalidArgument marks a malformed request. It is returned before any
// request is sent.
var ErrInvalidArgument = errors.New("invalid argument")

const dateLayout = "2006-01-02"

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// SearchWindow is a validated search request in API terms.
type SearchWindow struct {
	PublishedAfter  string
	PublishedBefore string
	Order           string
	PageSize        int64
}

// Validate checks the query and converts it to API parameters.
func (q SearchQuery) Validate() (SearchWindow, error) {
	if strings.TrimSpace(q.Term) == "" {
		return SearchWindow{}, invalidf("search term is required")
	}
	start, err := time.Parse(dateLayout, q.StartDate)
	if err != nil {
		return SearchWindow{}, invalidf("start date %q must be of format YYYY-MM-DD", q.StartDate)
	}
	end, err := time.Parse(dateLayout, q.EndDate)
	if err != nil {
		return SearchWindow{}, invalidf("end date %q must be of format YYYY-MM-DD", q.EndDate)
	}
	if end.Before(start) {
		return SearchWindow{}, invalidf("end date %s is before start date %s", q.EndDate, q.StartDate)
	}

	order := q.Order
	if order == "" {
		order = "relevance"
	}
	if !slices.Contains(SearchOrders, order) {
		return SearchWindow{}, invalidf("order must be one of: %s", strings.Join(SearchOrders, ", "))
	}

	size, err := pageSize(q.PageSize, SearchPageCap)
	if err != nil {
		return SearchWindow{}, err
	}

	return SearchWindow{
		PublishedAfter:  start.Format(dateLayout) + "T00:00:00Z",
		PublishedBefore: end.Format(dateLayout) + "T00:00:00Z",
		Order:           order,
		PageSize:        size,
	}, nil
}

// CommentsRequest is a validated comment listing in API terms.
type CommentsRequest struct {
	Parts    []string
	Order    string
	Budget   int64
	PageSize int64
}

// Validate checks the query and converts it to API parameters.
func (q CommentsQuery) Validate() (CommentsRequest, error) {
	if strings.TrimSpace(q.VideoID) == "" {
		return CommentsRequest{}, invalidf("video id is required")
	}

	limit := q.Limit
	if limit == "" {
		limit = CommentsAll
	}
	switch limit {
	case CommentsAll, CommentsTop100, CommentsTop500:
	default:
		return CommentsRequest{}, invalidf("limit must be one of 'all', 'top_100', or 'top_500'")
	}

	order := q.Order
	if order == "" {
		order = "time"
	}
	if !slices.Contains(CommentOrders, order) {
		return CommentsRequest{}, invalidf("order must be one of: %s", strings.Join(CommentOrders, ", "))
	}

	size, err := pageSize(q.PageSize, CommentPageCap)
	if err != nil {
		return CommentsRequest{}, err
	}

	parts := []string{"snippet", "replies"}
	if q.TopLevelOnly {
		parts = []string{"snippet"}
	}

	return CommentsRequest{
		Parts:    parts,
		Order:    order,
		Budget:   limit.Budget(),
		PageSize: size,
	}, nil
}

func pageSize(requested, limit int64) (int64, error) {
	switch {
	case requested == 0:
		return limit, nil
	case requested < 0 || requested > limit:
		return 0, invalidf("page size must be between 1 and %d (inclusive), got %d", limit, requested)
	default:
		return requested, nil
	}
}
