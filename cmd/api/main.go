// The api binary serves the read path: range and keyword queries over
// the harvested corpus. It only ever sees what ingestion successfully
// wrote; it shares nothing with the indexer but the database.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/crushack/Reddit-Indexer/pkg/config"
	"github.com/crushack/Reddit-Indexer/pkg/logger"
	"github.com/crushack/Reddit-Indexer/pkg/metrics"
	"github.com/crushack/Reddit-Indexer/pkg/mongodb"
	"github.com/crushack/Reddit-Indexer/pkg/redisclient"
)

func main() {
	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic("config error: " + err.Error())
	}

	if err := logger.Init(); err != nil {
		panic("logger init: " + err.Error())
	}
	defer logger.Log.Sync()
	log := logger.Log

	log.Info("starting reddit-indexer API server")

	// The read path never erases; it attaches to whatever the indexer
	// has written so far.
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := mongodb.Connect(connectCtx, cfg.MongoURI(), false)
	connectCancel()
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}

	// Optional response cache
	var cache *redisclient.Client
	if cfg.RedisURL != "" {
		cache, err = redisclient.New(cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer cache.Close()
		log.Info("response cache enabled")
	}

	router := mux.NewRouter()
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)
	router.Use(metricsMiddleware)

	router.HandleFunc("/items/", itemsHandler(store, cache)).Methods("GET")
	router.HandleFunc("/health", healthHandler(store, cache)).Methods("GET")
	router.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.APIPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	store.Close(closeCtx)
	log.Info("server exited")
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Log.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for the metrics labels.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		duration := time.Since(start).Seconds()

		status := fmt.Sprintf("%d", rec.status)
		metrics.APIRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(duration)
		metrics.APIRequestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
	})
}
