package pager

import "context"

// Table is an ordered set of flattened rows: page arrival order, then item
// order within the page.
type Table[R any] struct {
	Rows []R

	// Requests is the number of pages requested, failed ones included.
	Requests int

	// FetchErr is the error that ended paging early. Rows still holds
	// everything collected before it.
	FetchErr error
}

// Len returns the number of rows.
func (t Table[R]) Len() int { return len(t.Rows) }

// Complete reports whether paging ended without a fetch error.
func (t Table[R]) Complete() bool { return t.FetchErr == nil }

// Collect drains it, flattening every item into zero or more rows.
func Collect[T, R any](ctx context.Context, it *Iterator[T], flatten func(T) []R) Table[R] {
	var rows []R
	for it.Next(ctx) {
		rows = append(rows, flatten(it.Item())...)
	}
	return Table[R]{
		Rows:     rows,
		Requests: it.Requests(),
		FetchErr: it.Err(),
	}
}
