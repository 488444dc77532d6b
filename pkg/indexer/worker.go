package indexer

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/crushack/Reddit-Indexer/pkg/metrics"
	"github.com/crushack/Reddit-Indexer/pkg/models"
)

// fetchRetries bounds the backoff retries of one listing call before
// the sweep gives up and moves to the next subreddit.
const fetchRetries = 3

// Worker owns one disjoint group of subreddits and drives them through
// fetch, tokenize and store on a fixed cadence. Cancellation is
// cooperative: it is observed once per cycle after the sleep, so a
// sweep that has started always runs to completion over its group.
type Worker struct {
	id         int
	retrievers []*Retriever
	writer     *Writer
	interval   time.Duration
	log        *zap.Logger
}

// NewWorker builds a worker over its group. The retriever order is
// fixed for the worker's lifetime; every sweep visits subreddits in
// that order.
func NewWorker(id int, retrievers []*Retriever, writer *Writer, interval time.Duration, log *zap.Logger) *Worker {
	return &Worker{
		id:         id,
		retrievers: retrievers,
		writer:     writer,
		interval:   interval,
		log:        log.With(zap.Int("worker", id)),
	}
}

// Run loops sweep → sleep until ctx is cancelled. It returns only from
// the post-sleep check, never mid-sweep or mid-sleep.
func (w *Worker) Run(ctx context.Context) {
	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	w.log.Info("worker started", zap.Int("subreddits", len(w.retrievers)))
	for {
		w.sweep(ctx)

		time.Sleep(w.interval)
		if ctx.Err() != nil {
			w.log.Info("worker stopped")
			return
		}
	}
}

// sweep processes every subreddit in the group once, both kinds each.
// A subreddit whose fetch keeps failing is skipped until the next
// sweep; nothing here aborts the loop.
func (w *Worker) sweep(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	for _, r := range w.retrievers {
		w.sweepOne(ctx, r)
	}
}

func (w *Worker) sweepOne(ctx context.Context, r *Retriever) {
	for _, kind := range models.Kinds {
		items, watermark, err := w.fetchWithRetry(ctx, r, kind)
		if err != nil {
			metrics.FetchErrors.WithLabelValues(string(kind)).Inc()
			w.log.Error("fetch failed, skipping subreddit until next sweep",
				zap.String("subreddit", r.Subreddit()),
				zap.String("kind", string(kind)),
				zap.Error(err))
			return
		}
		if len(items) == 0 {
			continue
		}

		w.log.Debug("items retrieved",
			zap.String("subreddit", r.Subreddit()),
			zap.String("kind", string(kind)),
			zap.Int("count", len(items)),
			zap.Int64("watermark", watermark))

		if err := w.writer.Write(ctx, r.Subreddit(), kind, items); err != nil {
			w.log.Error("write failed",
				zap.String("subreddit", r.Subreddit()),
				zap.String("kind", string(kind)),
				zap.Error(err))
		}
	}
}

// fetchWithRetry retries transient listing failures with exponential
// backoff before giving up on the subreddit for this sweep.
func (w *Worker) fetchWithRetry(ctx context.Context, r *Retriever, kind models.Kind) ([]models.Item, int64, error) {
	var (
		items     []models.Item
		watermark int64
	)
	op := func() error {
		var err error
		items, watermark, err = r.FetchNew(ctx, kind)
		return err
	}
	err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), fetchRetries))
	return items, watermark, err
}
