// Package pager walks token-paginated listing endpoints.
//
// An Iterator asks a FetchFunc for successive pages, sizing each request as
// min(remaining budget, page cap), and stops when the budget is spent, the
// endpoint stops returning a continuation token, or a fetch fails. A failed
// fetch never discards what was already yielded: the iterator simply ends
// and reports the error through Err.
package pager

import (
	"context"
	"iter"
	"math"
)

// Unlimited is a budget that pages until the endpoint runs out of results.
const Unlimited int64 = math.MaxInt64

// Page is one listing response.
type Page[T any] struct {
	Items         []T
	NextPageToken string
}

// FetchFunc requests a single page. pageToken is empty on the first call and
// size is the number of items wanted from this page.
type FetchFunc[T any] func(ctx context.Context, pageToken string, size int64) (Page[T], error)

// Iterator is a lazy, finite, single-use sequence of items. It is not safe
// for concurrent use.
type Iterator[T any] struct {
	fetch     FetchFunc[T]
	pageCap   int64
	remaining int64

	token    string
	buf      []T
	cur      T
	done     bool
	requests int
	err      error
}

// New returns an iterator over at most budget items fetched pageCap at a time.
// A budget of zero or less yields nothing and issues no request.
func New[T any](fetch FetchFunc[T], budget, pageCap int64) *Iterator[T] {
	if pageCap <= 0 {
		pageCap = 1
	}
	return &Iterator[T]{
		fetch:     fetch,
		pageCap:   pageCap,
		remaining: budget,
		done:      budget <= 0,
	}
}

// Next advances to the next item, fetching a new page when the current one
// is used up. It returns false once the sequence is over.
func (it *Iterator[T]) Next(ctx context.Context) bool {
	for len(it.buf) == 0 {
		if it.done || !it.fetchPage(ctx) {
			var zero T
			it.cur = zero
			return false
		}
	}
	it.cur = it.buf[0]
	it.buf = it.buf[1:]
	return true
}

// Item returns the item Next advanced to.
func (it *Iterator[T]) Item() T { return it.cur }

// Err returns the fetch error that ended iteration early, if any.
func (it *Iterator[T]) Err() error { return it.err }

// Requests returns how many pages have been requested so far, failed ones included.
func (it *Iterator[T]) Requests() int { return it.requests }

// All adapts the iterator to a range-over-func sequence.
func (it *Iterator[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for it.Next(ctx) {
			if !yield(it.Item()) {
				return
			}
		}
	}
}

func (it *Iterator[T]) fetchPage(ctx context.Context) bool {
	if it.remaining <= 0 {
		it.done = true
		return false
	}
	if err := ctx.Err(); err != nil {
		it.err = err
		it.done = true
		return false
	}

	size := min(it.remaining, it.pageCap)
	it.requests++
	page, err := it.fetch(ctx, it.token, size)
	if err != nil {
		it.err = err
		it.done = true
		return false
	}

	items := page.Items
	if int64(len(items)) > size {
		items = items[:size]
	}
	it.remaining -= size

	switch {
	case page.NextPageToken == "":
		it.done = true
	case page.NextPageToken == it.token && len(items) == 0:
		// endpoint is handing back the same empty page
		it.done = true
	default:
		it.token = page.NextPageToken
	}
	if it.remaining <= 0 {
		it.done = true
	}

	it.buf = items
	return true
}
