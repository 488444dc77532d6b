package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/crushack/Reddit-Indexer/pkg/metrics"
	"github.com/crushack/Reddit-Indexer/pkg/models"
	"github.com/crushack/Reddit-Indexer/pkg/tokenize"
)

// Writer turns fetched items into documents and persists them. The same
// failure handling applies to submissions and comments: a partial bulk
// failure is logged and absorbed so the sweep moves on, never aborted.
type Writer struct {
	store Store
	log   *zap.Logger
}

func NewWriter(store Store, log *zap.Logger) *Writer {
	return &Writer{store: store, log: log}
}

// Write tokenizes items, ensures the search indexes for (sub, kind) and
// bulk-inserts the documents. A failed index ensure aborts this write
// only and is returned for the worker to surface; insert failures are
// absorbed here. There is no retry and no dedup: a re-fetch after a
// partially failed cycle may insert duplicates, which is accepted.
func (w *Writer) Write(ctx context.Context, sub string, kind models.Kind, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	docs := make([]models.Document, len(items))
	for i, item := range items {
		docs[i] = models.NewDocument(item, tokenize.Join(tokenize.Tokens(item.Body)))
	}

	if err := w.store.EnsureSearchIndexes(ctx, sub, kind); err != nil {
		metrics.IndexErrors.Inc()
		return fmt.Errorf("ensure indexes for %s/%s: %w", sub, kind, err)
	}

	inserted, err := w.store.InsertDocuments(ctx, sub, kind, docs)
	metrics.InsertCounter.WithLabelValues(string(kind)).Add(float64(inserted))
	if err != nil {
		// Partial or full rejection: report and keep sweeping.
		metrics.InsertErrors.WithLabelValues(string(kind)).Inc()
		w.log.Warn("bulk insert failed",
			zap.String("subreddit", sub),
			zap.String("kind", string(kind)),
			zap.Int("inserted", inserted),
			zap.Int("total", len(docs)),
			zap.Error(err))
	}
	return nil
}
