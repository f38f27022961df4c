package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/config"
	"github.com/kailas-cloud/sentimentd/internal/db"
	dbRedis "github.com/kailas-cloud/sentimentd/internal/db/redis"
	"github.com/kailas-cloud/sentimentd/internal/domain"
	logpkg "github.com/kailas-cloud/sentimentd/internal/logger"
	"github.com/kailas-cloud/sentimentd/internal/metrics"
	"github.com/kailas-cloud/sentimentd/internal/repository/artifact"
	"github.com/kailas-cloud/sentimentd/internal/repository/vcache"
	chiTransport "github.com/kailas-cloud/sentimentd/internal/transport/chi"
	openaiVec "github.com/kailas-cloud/sentimentd/internal/transport/openai"
	feedbackuc "github.com/kailas-cloud/sentimentd/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/sentimentd/internal/usecase/health"
	sentimentuc "github.com/kailas-cloud/sentimentd/internal/usecase/sentiment"
	sessionuc "github.com/kailas-cloud/sentimentd/internal/usecase/session"
	"github.com/kailas-cloud/sentimentd/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sentimentd",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.VectorCacheEnabled()),
		zap.Bool("remote_vectorizer", cfg.Model.Remote.Enabled),
	)

	// Register metrics explicitly (no init())
	metrics.Register()

	positive := domain.ClassID(cfg.Model.PositiveClass)

	vec, vecName, clf, err := loadModel(cfg.Model, positive, logger)
	if err != nil {
		var ae *domain.ArtifactError
		if errors.As(err, &ae) {
			logger.Fatal("Model artifact unavailable",
				zap.String("kind", ae.Kind),
				zap.String("path", ae.Path),
				zap.Error(err),
			)
		}
		logger.Fatal("Failed to load model", zap.Error(err))
	}
	logger.Info("Model loaded",
		zap.String("vectorizer", vecName),
		zap.Int("features", clf.Features()),
		zap.Int("classes", len(clf.Classes())),
		zap.String("positive_class", string(positive)),
	)

	// Pass nil interfaces (not typed nil pointers!) for optional health checks.
	var cachePinger healthuc.Pinger
	var vectorizerChecker healthuc.VectorizerChecker
	if hc, ok := vec.(domain.HealthChecker); ok {
		vectorizerChecker = hc
	}

	switch {
	case cfg.VectorCacheEnabled():
		if store := newStore(cfg.Cache, logger); store != nil {
			defer store.Close()

			vec = vcache.New(vec, vecName, store, time.Duration(cfg.Cache.TTLSec)*time.Second,
				metrics.VectorizerCacheTotal, logger)
			cachePinger = store
		}
	case cfg.Cache.Enabled:
		logger.Info("Vector cache skipped: only remote vectorizers are cached")
	}

	sentimentSvc := sentimentuc.New(vec, clf, positive, sentimentuc.Metrics{
		Predictions: metrics.PredictionsTotal,
		Duration:    metrics.PredictionDuration,
		EmptyInputs: metrics.EmptyInputsTotal,
	}, logger)
	sessionStore := sessionuc.New(time.Duration(cfg.Session.IdleTimeoutSec)*time.Second,
		metrics.ActiveSessions, logger)
	feedbackSvc := feedbackuc.New(metrics.FeedbackTotal, logger)
	healthSvc := healthuc.New(clf, cachePinger, vectorizerChecker)

	api := chiTransport.NewServer(sentimentSvc, sessionStore, feedbackSvc, healthSvc, logger)
	web, err := chiTransport.NewWebHandler(sentimentSvc, sessionStore, feedbackSvc, cfg.Session.CookieName, logger)
	if err != nil {
		logger.Fatal("Failed to parse templates", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(api, web, logger),
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

	logger.Info("Server stopped gracefully", zap.String("build", version.String()))
}

// loadModel builds the vectorizer and classifier. With a remote vectorizer only
// the classifier artifact is read from disk.
func loadModel(
	cfg config.ModelConfig,
	positive domain.ClassID,
	logger *zap.Logger,
) (domain.Vectorizer, string, domain.Classifier, error) {
	if !cfg.Remote.Enabled {
		bundle, err := artifact.Load(cfg.VectorizerPath, cfg.ClassifierPath, positive)
		if err != nil {
			return nil, "", nil, err //nolint:wrapcheck // *domain.ArtifactError carries context
		}
		return bundle.Vectorizer, bundle.VectorizerKind, bundle.Classifier, nil
	}

	clf, _, err := artifact.LoadClassifier(cfg.ClassifierPath)
	if err != nil {
		return nil, "", nil, err //nolint:wrapcheck // *domain.ArtifactError carries context
	}
	vec := openaiVec.NewVectorizer(&openaiVec.Config{
		APIKey:     cfg.Remote.APIKey,
		BaseURL:    cfg.Remote.BaseURL,
		Model:      cfg.Remote.Model,
		Dimensions: cfg.Remote.Dimensions,
		Logger:     logger,
	})
	if err := artifact.CheckCompatible(vec, clf, positive); err != nil {
		return nil, "", nil, err //nolint:wrapcheck // *domain.ArtifactError carries context
	}
	return vec, "remote:" + cfg.Remote.Model, clf, nil
}

// newStore connects the vector cache. Returns nil when the cache cannot be
// reached at all; predictions then run uncached. A store that connects but is
// not ready yet is kept: lookups fail soft and /health reports it.
func newStore(cfg config.CacheConfig, logger *zap.Logger) db.Store {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		logger.Warn("Cache unavailable, running without it", zap.String("driver", cfg.Driver), zap.Error(err))
		return nil
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Cache not ready, continuing without hits", zap.Error(err))
		return store
	}
	logger.Info("Connected to cache", zap.String("driver", cfg.Driver), zap.Strings("addrs", cfg.Addrs))
	return store
}
