package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/crushack/Reddit-Indexer/pkg/metrics"
	"github.com/crushack/Reddit-Indexer/pkg/models"
)

// Retriever fetches new items for one subreddit and tracks its
// watermark: the creation time of the newest item seen so far, the
// exclusive lower bound of the next fetch. Each Retriever is owned by
// exactly one worker, so the watermark needs no synchronization.
type Retriever struct {
	lister Lister
	sub    string

	watermark int64

	submissionLimit int
	commentLimit    int
}

func NewRetriever(lister Lister, sub string, startTime int64, submissionLimit, commentLimit int) *Retriever {
	return &Retriever{
		lister:          lister,
		sub:             sub,
		watermark:       startTime,
		submissionLimit: submissionLimit,
		commentLimit:    commentLimit,
	}
}

func (r *Retriever) Subreddit() string { return r.sub }

// Watermark returns the current watermark.
func (r *Retriever) Watermark() int64 { return r.watermark }

// FetchNew lists the most-recent items of the given kind and keeps only
// those created strictly after the watermark, then advances the
// watermark to the newest kept item. Advancement is monotonic.
//
// The listing is bounded: if more than the configured limit of items
// were created since the last call, the overflow is silently lost and
// can never be retrieved later. That is an inherent trade-off of
// bounded-page polling, not something this layer papers over.
func (r *Retriever) FetchNew(ctx context.Context, kind models.Kind) ([]models.Item, int64, error) {
	start := time.Now()

	var (
		fetched []models.Item
		err     error
	)
	switch kind {
	case models.KindSubmission:
		fetched, err = r.lister.NewSubmissions(ctx, r.sub, r.submissionLimit)
	case models.KindComment:
		fetched, err = r.lister.NewComments(ctx, r.sub, r.commentLimit)
	default:
		return nil, r.watermark, fmt.Errorf("unknown item kind %q", kind)
	}
	if err != nil {
		return nil, r.watermark, err
	}
	metrics.FetchLatency.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	// The API does not return a sorted, gap-free stream; every item
	// has to be checked against the watermark individually.
	newWatermark := r.watermark
	var kept []models.Item
	for _, item := range fetched {
		if item.Created <= r.watermark {
			continue
		}
		if item.Created > newWatermark {
			newWatermark = item.Created
		}
		kept = append(kept, item)
	}

	r.watermark = newWatermark
	metrics.FetchCounter.WithLabelValues(string(kind)).Add(float64(len(kept)))
	return kept, newWatermark, nil
}
