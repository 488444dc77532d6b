// Package mongodb is the document-store client. One collection exists
// per (subreddit, kind) pair, named reddit__subm__<sub> or
// reddit__comm__<sub> inside the reddit_parser database; the naming
// scheme is load-bearing for existing corpora and must not change.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/crushack/Reddit-Indexer/pkg/logger"
	"github.com/crushack/Reddit-Indexer/pkg/metrics"
	"github.com/crushack/Reddit-Indexer/pkg/models"
)

const (
	databaseName = "reddit_parser"

	redditPrefix     = "reddit__"
	submissionPrefix = "subm__"
	commentPrefix    = "comm__"
)

// searchIndexes are the two indexes every item collection carries: a
// plain timestamp range index and a text index over the token field
// combined with the timestamp. Creation is idempotent.
var searchIndexes = []mongo.IndexModel{
	{
		Keys: bson.D{{Key: "timestamp", Value: 1}},
	},
	{
		Keys:    bson.D{{Key: "word", Value: "text"}, {Key: "timestamp", Value: 1}},
		Options: options.Index().SetDefaultLanguage("none"),
	},
}

// Store wraps the shared mongo client. The driver's client is safe for
// concurrent use, so one Store serves every worker.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials the store and pings it. With erase set, every existing
// collection is emptied and its indexes dropped before returning.
func Connect(ctx context.Context, uri string, erase bool) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &Store{client: client, db: client.Database(databaseName)}
	if erase {
		if err := s.eraseAll(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close releases the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping reports store reachability for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.withMetrics("ping", func() error {
		return s.client.Ping(ctx, nil)
	})
}

// CollectionName renders the deterministic per-(subreddit, kind)
// collection name.
func CollectionName(sub string, kind models.Kind) string {
	if kind == models.KindComment {
		return redditPrefix + commentPrefix + sub
	}
	return redditPrefix + submissionPrefix + sub
}

// eraseAll empties every collection and drops its indexes.
func (s *Store) eraseAll(ctx context.Context) error {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, name := range names {
		coll := s.db.Collection(name)
		if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("erase %s: %w", name, err)
		}
		if _, err := coll.Indexes().DropAll(ctx); err != nil {
			return fmt.Errorf("drop indexes %s: %w", name, err)
		}
		logger.Log.Info("erased collection", zap.String("collection", name))
	}
	return nil
}

// EnsureSearchIndexes creates the search indexes on the collection for
// (sub, kind). Safe to call on every write cycle.
func (s *Store) EnsureSearchIndexes(ctx context.Context, sub string, kind models.Kind) error {
	return s.withMetrics("ensure_indexes", func() error {
		coll := s.db.Collection(CollectionName(sub, kind))
		_, err := coll.Indexes().CreateMany(ctx, searchIndexes)
		return err
	})
}

// InsertDocuments bulk-inserts docs unordered, so a rejected document
// does not stop the rest of the batch. It returns how many documents
// were inserted; on partial failure that count is accurate and the
// returned error carries the per-document detail.
func (s *Store) InsertDocuments(ctx context.Context, sub string, kind models.Kind, docs []models.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	payload := make([]interface{}, len(docs))
	for i, d := range docs {
		payload[i] = d
	}

	var inserted int
	err := s.withMetrics("insert_many", func() error {
		coll := s.db.Collection(CollectionName(sub, kind))
		res, err := coll.InsertMany(ctx, payload, options.InsertMany().SetOrdered(false))
		if res != nil {
			inserted = len(res.InsertedIDs)
		}
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) {
			return fmt.Errorf("bulk insert into %s: %d of %d rejected: %w",
				CollectionName(sub, kind), len(docs)-inserted, len(docs), err)
		}
		return err
	})
	return inserted, err
}

// Documents answers the read path: items of (sub, kind) with timestamp
// in [from, to], optionally restricted to a full-text keyword match.
func (s *Store) Documents(ctx context.Context, sub string, kind models.Kind, from, to int64, key string) ([]models.Document, error) {
	filter := bson.M{
		"timestamp": bson.M{"$gte": from, "$lte": to},
	}
	if key != "" {
		filter["$text"] = bson.M{"$search": key, "$language": "none"}
	}

	var docs []models.Document
	err := s.withMetrics("find", func() error {
		coll := s.db.Collection(CollectionName(sub, kind))
		opts := options.Find().
			SetProjection(bson.M{"subreddit": 1, "body": 1, "timestamp": 1}).
			SetSort(bson.D{{Key: "timestamp", Value: 1}})
		cursor, err := coll.Find(ctx, filter, opts)
		if err != nil {
			return err
		}
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", CollectionName(sub, kind), err)
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

// withMetrics wraps operations with duration and error instruments.
func (s *Store) withMetrics(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.MongoOperationDuration.
		WithLabelValues(operation, metrics.Status(err)).
		Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrors.WithLabelValues(operation).Inc()
	}
	return err
}
