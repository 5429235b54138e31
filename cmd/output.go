package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alanpramil7/ytscout/internal/config"
	"github.com/alanpramil7/ytscout/internal/export"
	"github.com/alanpramil7/ytscout/internal/logging"
	"github.com/alanpramil7/ytscout/internal/yt"
	"github.com/alanpramil7/ytscout/internal/yt/pager"
)

func newClient(ctx context.Context) (*yt.Client, error) {
	client, err := yt.NewClient(ctx, cfg.APIKey, yt.WithMaxQPS(cfg.MaxQPS))
	if errors.Is(err, yt.ErrMissingAPIKey) {
		return nil, fmt.Errorf("%w: set %s (or add it to .env)", err, config.APIKeyEnv())
	}
	return client, err
}

// emit prints rows in the selected format and, with --store, upserts them.
func emit[R export.Row](ctx context.Context, collection string, rows []R) error {
	format, err := export.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if err := export.Write(os.Stdout, format, rows); err != nil {
		return err
	}

	if !storeResults {
		return nil
	}
	if cfg.MongoURI == "" {
		return errors.New("--store needs MONGO_URI to be set")
	}

	sink, err := export.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer sink.Close(context.Background())

	_, err = export.Store(ctx, sink, collection, rows)
	return err
}

// emitTable is emit for paged results. A partial table is still printed;
// the fetch error is reported on stderr afterwards.
func emitTable[R export.Row](ctx context.Context, collection string, t pager.Table[R]) error {
	if err := emit(ctx, collection, t.Rows); err != nil {
		return err
	}
	if !t.Complete() {
		logging.Logger.Warn().Err(t.FetchErr).Int("rows", t.Len()).Msg("results are partial")
	}
	return nil
}
