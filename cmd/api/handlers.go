package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/crushack/Reddit-Indexer/pkg/logger"
	"github.com/crushack/Reddit-Indexer/pkg/metrics"
	"github.com/crushack/Reddit-Indexer/pkg/models"
	"github.com/crushack/Reddit-Indexer/pkg/mongodb"
	"github.com/crushack/Reddit-Indexer/pkg/redisclient"
)

const cacheTTL = 30 * time.Second

// itemsResponse mirrors the original read-path payload: both kinds plus
// the query time in seconds.
type itemsResponse struct {
	Submissions []models.Document `json:"submissions"`
	Comments    []models.Document `json:"comments"`
	Time        float64           `json:"time"`
}

// itemsQuery is the parsed and validated query string of /items/.
type itemsQuery struct {
	Subreddit string
	From, To  int64
	Key       string
}

func parseItemsQuery(r *http.Request) (itemsQuery, string) {
	q := itemsQuery{
		Subreddit: r.URL.Query().Get("subreddit"),
		Key:       r.URL.Query().Get("key"),
	}
	if q.Subreddit == "" {
		return q, "subreddit is required"
	}

	var err error
	if q.From, err = strconv.ParseInt(r.URL.Query().Get("from"), 10, 64); err != nil {
		return q, "from must be a UNIX timestamp"
	}
	if q.To, err = strconv.ParseInt(r.URL.Query().Get("to"), 10, 64); err != nil {
		return q, "to must be a UNIX timestamp"
	}
	if q.To < q.From {
		return q, "to must not precede from"
	}
	return q, ""
}

// itemsHandler translates the query parameters into the two store
// queries and returns the combined result. Responses are cached briefly
// when a cache is configured.
func itemsHandler(store *mongodb.Store, cache *redisclient.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, badRequest := parseItemsQuery(r)
		if badRequest != "" {
			http.Error(w, badRequest, http.StatusBadRequest)
			return
		}

		cacheKey := "items:" + r.URL.RawQuery
		if cache != nil {
			if payload, err := cache.Get(r.Context(), cacheKey); err == nil && payload != nil {
				metrics.APICacheHits.Inc()
				w.Header().Set("Content-Type", "application/json")
				w.Write(payload)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		start := time.Now()
		submissions, err := store.Documents(ctx, q.Subreddit, models.KindSubmission, q.From, q.To, q.Key)
		if err != nil {
			logger.Log.Error("submission query failed", zap.String("subreddit", q.Subreddit), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		comments, err := store.Documents(ctx, q.Subreddit, models.KindComment, q.From, q.To, q.Key)
		if err != nil {
			logger.Log.Error("comment query failed", zap.String("subreddit", q.Subreddit), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		resp := itemsResponse{
			Submissions: submissions,
			Comments:    comments,
			Time:        time.Since(start).Seconds(),
		}

		payload, err := json.Marshal(resp)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if cache != nil {
			if err := cache.Set(r.Context(), cacheKey, payload, cacheTTL); err != nil {
				logger.Log.Warn("response cache write failed", zap.Error(err))
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	}
}

func healthHandler(store *mongodb.Store, cache *redisclient.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			http.Error(w, "Database health check failed", http.StatusServiceUnavailable)
			return
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				http.Error(w, "Cache health check failed", http.StatusServiceUnavailable)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}
}
