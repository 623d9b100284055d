package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/loomstack/termdex/internal/config"
	"github.com/loomstack/termdex/internal/corpus"
	"github.com/loomstack/termdex/internal/db"
	dbRedis "github.com/loomstack/termdex/internal/db/redis"
	"github.com/loomstack/termdex/internal/domain/document"
	"github.com/loomstack/termdex/internal/domain/labelmap"
	logpkg "github.com/loomstack/termdex/internal/logger"
	"github.com/loomstack/termdex/internal/metrics"
	"github.com/loomstack/termdex/internal/repository/docstore"
	labelrepo "github.com/loomstack/termdex/internal/repository/labelmap"
	"github.com/loomstack/termdex/internal/tokenizer"
	chiTransport "github.com/loomstack/termdex/internal/transport/chi"
	"github.com/loomstack/termdex/internal/usecase/analyze"
	exportuc "github.com/loomstack/termdex/internal/usecase/export"
	healthuc "github.com/loomstack/termdex/internal/usecase/health"
	similarityuc "github.com/loomstack/termdex/internal/usecase/similarity"
	"github.com/loomstack/termdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting termdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_kind", cfg.Corpus.Kind),
		zap.String("corpus_path", cfg.Corpus.Path),
	)

	ctx := context.Background()

	// Database is optional: without it the label table lives in memory and
	// exported label integers are only consistent within this process.
	var store db.Store
	if len(cfg.Database.Addrs) > 0 {
		switch cfg.Database.Driver {
		case "valkey", "redis":
			store, err = dbRedis.NewStore(dbRedis.Config{
				Addrs:    cfg.Database.Addrs,
				Password: cfg.Database.Password,
			})
		default:
			logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
		}
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database")
	}

	// Register corpus metrics explicitly (no init())
	metrics.RegisterCorpusMetrics()

	// Load the corpus through the tokenizer into the in-memory store.
	c, err := corpus.Open(corpus.Kind(cfg.Corpus.Kind), cfg.Corpus.Path, cfg.Corpus.LabelsPath)
	if err != nil {
		logger.Fatal("Failed to open corpus", zap.Error(err))
	}

	vocab := tokenizer.NewVocabulary()
	tok := tokenizer.NewWordTokenizer(vocab).WithMinLength(cfg.Tokenizer.MinWordLength)
	docs := docstore.New()

	loader := analyze.New(tok, docs, logger, cfg.Corpus.Kind)
	stats, err := loader.Load(ctx, c)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	logger.Info("Corpus loaded",
		zap.Int("documents", stats.Documents),
		zap.Int("tokens", stats.Tokens),
		zap.Int("vocabulary", vocab.Len()),
	)

	// Label table: shared via the database when configured, per-process otherwise.
	var mapping document.LabelMapping
	if store != nil {
		mapping = labelrepo.New(store, cfg.Storage.KeyPrefix).Bound(ctx)
	} else {
		mapping = labelmap.New()
	}

	simSvc := similarityuc.New(docs).WithTopK(cfg.Search.DefaultTopK, cfg.Search.MaxTopK)
	exportSvc := exportuc.New(docs, mapping)
	healthSvc := healthuc.New(docs, store)

	server := chiTransport.NewServer(docs, simSvc, exportSvc, healthSvc, logger, cfg.Export.OutputDir).
		WithPagination(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
