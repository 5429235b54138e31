package services

import (
	"github.com/alanpramil7/ytscout/internal/logging"
	"github.com/alanpramil7/ytscout/internal/metrics"
	"github.com/alanpramil7/ytscout/internal/yt/pager"
)

// report logs a finished table. A fetch error is a warning, not a failure:
// the caller still gets every row collected before it.
func report[R any](endpoint string, t pager.Table[R]) {
	metrics.RowsCollectedTotal.WithLabelValues(endpoint).Add(float64(t.Len()))

	if t.FetchErr != nil {
		logging.Logger.Warn().
			Err(t.FetchErr).
			Str("endpoint", endpoint).
			Int("rows", t.Len()).
			Int("requests", t.Requests).
			Msg("paging stopped early, returning partial results")
		return
	}

	logging.Logger.Info().
		Str("endpoint", endpoint).
		Int("rows", t.Len()).
		Int("requests", t.Requests).
		Msg("collected results")
}
