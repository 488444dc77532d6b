// Package indexer is the incremental ingestion core: it partitions the
// configured subreddits across a bounded set of worker goroutines, each
// sweeping its group on a fixed cadence through fetch, tokenize and
// store steps while tracking a per-subreddit watermark.
package indexer

import (
	"context"

	"github.com/crushack/Reddit-Indexer/pkg/models"
)

// Lister is the slice of the content API the core consumes: two bounded
// most-recent listings per subreddit. Neither guarantees sort order or
// gap-free paging across calls.
type Lister interface {
	NewSubmissions(ctx context.Context, sub string, limit int) ([]models.Item, error)
	NewComments(ctx context.Context, sub string, limit int) ([]models.Item, error)
}

// Store is the slice of the document store the core consumes. The
// implementation must be safe for concurrent use across workers.
// InsertDocuments reports how many documents landed; a partial failure
// returns both a positive count and an error.
type Store interface {
	EnsureSearchIndexes(ctx context.Context, sub string, kind models.Kind) error
	InsertDocuments(ctx context.Context, sub string, kind models.Kind, docs []models.Document) (int, error)
}
