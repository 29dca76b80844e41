package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/askcast/askcast/internal/config"
	dbRedis "github.com/askcast/askcast/internal/db/redis"
	logpkg "github.com/askcast/askcast/internal/logger"
	"github.com/askcast/askcast/internal/metrics"
	"github.com/askcast/askcast/internal/repository/embcache"
	"github.com/askcast/askcast/internal/repository/episode"
	chiTransport "github.com/askcast/askcast/internal/transport/chi"
	"github.com/askcast/askcast/internal/transport/hf"
	openaiTransport "github.com/askcast/askcast/internal/transport/openai"
	"github.com/askcast/askcast/internal/transport/pinecone"
	answeruc "github.com/askcast/askcast/internal/usecase/answer"
	classifyuc "github.com/askcast/askcast/internal/usecase/classify"
	enrichuc "github.com/askcast/askcast/internal/usecase/enrich"
	healthuc "github.com/askcast/askcast/internal/usecase/health"
	queryuc "github.com/askcast/askcast/internal/usecase/query"
	retrievaluc "github.com/askcast/askcast/internal/usecase/retrieval"
	"github.com/askcast/askcast/internal/version"
)

func main() {
	// Local development reads secrets from .env; missing file is fine.
	_ = godotenv.Load()

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

	logger.Info("Starting askcast API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
		zap.String("index", cfg.Index.Name),
	)

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Embedding cache store
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache not ready", zap.Error(err))
	}
	logger.Info("Connected to embedding cache")

	// Episode row store
	pool, err := episode.Open(cfg.Episodes.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to open episode store", zap.Error(err))
	}
	defer func() { _ = pool.Close() }()
	episodes := episode.New(pool)
	logger.Info("Connected to episode store")

	// Vector index
	index := pinecone.NewClient(&pinecone.Config{
		ControllerURL: cfg.Index.ControllerURL,
		APIKey:        cfg.Index.APIKey,
		IndexName:     cfg.Index.Name,
		Namespace:     cfg.Index.Namespace,
		Timeout:       time.Duration(cfg.Index.TimeoutSec) * time.Second,
		Logger:        logger,
	})
	if err := index.Init(ctx); err != nil {
		logger.Fatal("Failed to initialize vector index", zap.Error(err))
	}

	// Providers
	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})
	sparse := hf.NewSparseEncoder(
		cfg.Sparse.Endpoint, cfg.Sparse.APIKey,
		time.Duration(cfg.Sparse.TimeoutSec)*time.Second,
	)
	classifier := hf.NewClassifier(
		cfg.Classifier.Endpoint, cfg.Classifier.APIKey,
		time.Duration(cfg.Classifier.TimeoutSec)*time.Second,
	)

	// The generation stream stays open far longer than a normal request, so
	// the timeout bounds time-to-first-header only.
	chat := openaiTransport.NewChatStreamer(&openaiTransport.ChatConfig{
		APIKey:        cfg.Answer.APIKey,
		BaseURL:       cfg.Answer.BaseURL,
		Model:         cfg.Answer.Model,
		SystemMessage: cfg.Answer.SystemMessage,
		Client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: time.Duration(cfg.Answer.TimeoutSec) * time.Second,
			},
		},
		Logger: logger,
	})

	// Use case services
	cache := embcache.New(store, time.Duration(cfg.Cache.TTLSec)*time.Second,
		metrics.EmbeddingCacheTotal, logger)
	classifySvc := classifyuc.New(classifier)
	retrieveSvc := retrievaluc.New(index, retrievaluc.Config{
		TopK:        cfg.Query.TopK,
		HybridScale: *cfg.Query.HybridScale,
		SparseAlpha: *cfg.Query.SparseAlpha,
		DenseAlpha:  *cfg.Query.DenseAlpha,
	})
	enrichSvc := enrichuc.New(episodes, enrichuc.MissingPolicy(cfg.Episodes.MissingPolicy))
	answerSvc := answeruc.New(generatorAdapter{chat}, answeruc.Config{
		RetryMs: cfg.Answer.RetryMs,
		Pacing:  time.Duration(cfg.Answer.PacingMs) * time.Millisecond,
	})
	pipeline := queryuc.New(cache, embedder, sparse, classifySvc, retrieveSvc, enrichSvc, answerSvc)

	healthSvc := healthuc.New(store, sqlPinger{pool}, index)

	server := chiTransport.NewServer(pipeline, healthSvc, chiTransport.Identity{
		Title:       cfg.Service.Title,
		Description: cfg.Service.Description,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Get("/", server.HealthCheck)
	r.Post("/query", server.Query)
	r.Get("/metrics", server.Metrics)

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

// generatorAdapter narrows the concrete chat streamer to the answer contract.
type generatorAdapter struct {
	chat *openaiTransport.ChatStreamer
}

func (a generatorAdapter) Open(ctx context.Context, userContent string) (answeruc.ChunkStream, error) {
	return a.chat.Open(ctx, userContent)
}

// sqlPinger adapts *sql.DB to the health check contract.
type sqlPinger struct {
	db *sql.DB
}

func (p sqlPinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
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

			// Canonical log line — one line per request
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
