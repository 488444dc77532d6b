// The indexer daemon harvests new submissions and comments from the
// configured subreddits and persists them, tokenized, to MongoDB.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/crushack/Reddit-Indexer/pkg/config"
	"github.com/crushack/Reddit-Indexer/pkg/indexer"
	"github.com/crushack/Reddit-Indexer/pkg/logger"
	"github.com/crushack/Reddit-Indexer/pkg/metrics"
	"github.com/crushack/Reddit-Indexer/pkg/mongodb"
	"github.com/crushack/Reddit-Indexer/pkg/reddit"
)

func main() {
	// 1. Load config (credentials may come from .env)
	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic("config error: " + err.Error())
	}

	// 2. Init logger
	if err := logger.Init(); err != nil {
		panic("logger init: " + err.Error())
	}
	defer logger.Log.Sync()
	log := logger.Log

	// 3. Connect to the document store
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := mongodb.Connect(connectCtx, cfg.MongoURI(), cfg.EraseDatabase)
	connectCancel()
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		store.Close(closeCtx)
	}()

	// 4. Build the content API client
	client, err := reddit.NewClient(cfg.ClientID, cfg.ClientSecret, cfg.UserAgent)
	if err != nil {
		log.Fatal("failed to build reddit client", zap.Error(err))
	}

	// 5. Dedup and partition the subreddit list
	subreddits := cfg.Subreddits
	if cfg.CompressSubreddits {
		subreddits = indexer.Dedup(subreddits)
	}
	groups := indexer.Partition(subreddits, cfg.NumThreads)
	log.Info("subreddits partitioned",
		zap.Int("subreddits", len(subreddits)),
		zap.Int("workers", len(groups)))

	// 6. Metrics endpoint
	go startMetricsServer(cfg.MetricsPort)

	// 7. One worker goroutine per group
	ctx, cancel := context.WithCancel(context.Background())
	writer := indexer.NewWriter(store, log)

	var wg sync.WaitGroup
	for i, group := range groups {
		retrievers := make([]*indexer.Retriever, len(group))
		for j, sub := range group {
			retrievers[j] = indexer.NewRetriever(client, sub, cfg.StartTime,
				cfg.SubmissionLimit, cfg.CommentLimit)
		}
		worker := indexer.NewWorker(i, retrievers, writer, cfg.PollInterval(), log)

		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}

	// 8. Cooperative shutdown: signal flips the context once, then we
	// wait for every in-flight sweep to finish.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("shutdown signal received, waiting for workers")
	cancel()
	wg.Wait()
	log.Info("all workers stopped, exiting")
}

func startMetricsServer(port int) {
	r := mux.NewRouter()
	r.Handle("/metrics", metrics.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Log.Info("metrics server listening", zap.String("addr", addr))
	http.ListenAndServe(addr, r) // errors are logged by default
}
