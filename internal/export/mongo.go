package export

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alanpramil7/ytscout/internal/logging"
)

// Collections rows are stored in, per result kind.
const (
	SearchCollection   = "search_results"
	CommentCollection  = "comments"
	VideoCollection    = "videos"
	PlaylistCollection = "playlist_items"
)

// MongoSink upserts result rows into a MongoDB database, keyed by row key.
type MongoSink struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo connects and pings the server.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoSink{client: client, db: client.Database(database)}, nil
}

func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Store upserts rows into collection and returns how many documents were
// inserted or changed.
func Store[R Row](ctx context.Context, s *MongoSink, collection string, rows []R) (int64, error) {
	models := UpsertModels(rows)
	if len(models) == 0 {
		return 0, nil
	}

	opts := options.BulkWrite().SetOrdered(false)
	result, err := s.db.Collection(collection).BulkWrite(ctx, models, opts)
	if err != nil {
		return 0, fmt.Errorf("bulk write to %s failed: %w", collection, err)
	}

	stored := result.UpsertedCount + result.ModifiedCount
	logging.Logger.Info().
		Str("collection", collection).
		Int64("upserted", result.UpsertedCount).
		Int64("modified", result.ModifiedCount).
		Int("total", len(models)).
		Msg("stored rows")
	return stored, nil
}

// UpsertModels builds one replace-or-insert per row, filtered on _id = Key().
// Rows with an empty key are skipped.
func UpsertModels[R Row](rows []R) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(rows))
	for _, r := range rows {
		key := r.Key()
		if key == "" {
			continue
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": key}).
			SetReplacement(r).
			SetUpsert(true))
	}
	return models
}
