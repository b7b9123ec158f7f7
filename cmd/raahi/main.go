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

	"github.com/cabswale/raahi/internal/config"
	"github.com/cabswale/raahi/internal/db"
	dbElastic "github.com/cabswale/raahi/internal/db/elastic"
	dbRedis "github.com/cabswale/raahi/internal/db/redis"
	"github.com/cabswale/raahi/internal/domain/collection"
	logpkg "github.com/cabswale/raahi/internal/logger"
	"github.com/cabswale/raahi/internal/metrics"
	"github.com/cabswale/raahi/internal/repository/geocache"
	"github.com/cabswale/raahi/internal/repository/records"
	"github.com/cabswale/raahi/internal/transport/analytics"
	chiTransport "github.com/cabswale/raahi/internal/transport/chi"
	"github.com/cabswale/raahi/internal/transport/fraud"
	"github.com/cabswale/raahi/internal/transport/gemini"
	"github.com/cabswale/raahi/internal/transport/geocoding"
	openaiTransport "github.com/cabswale/raahi/internal/transport/openai"
	assistantuc "github.com/cabswale/raahi/internal/usecase/assistant"
	audiouc "github.com/cabswale/raahi/internal/usecase/audio"
	countryuc "github.com/cabswale/raahi/internal/usecase/country"
	healthuc "github.com/cabswale/raahi/internal/usecase/health"
	intentuc "github.com/cabswale/raahi/internal/usecase/intent"
	searchuc "github.com/cabswale/raahi/internal/usecase/search"
	speechuc "github.com/cabswale/raahi/internal/usecase/speech"
	"github.com/cabswale/raahi/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting raahi assistant",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("llm_provider", cfg.LLM.Provider),
	)

	// Create search backend based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
		})
	case "elasticsearch":
		store, err = dbElastic.NewStore(dbElastic.Config{
			Addresses: cfg.Database.Addrs,
			Username:  cfg.Database.Username,
			Password:  cfg.Database.Password,
			KVIndex:   cfg.Storage.KeyPrefix + "kv",
		})
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterAssistantMetrics()

	// Records repository; indexes are created on first start.
	recordRepo := records.New(store, cfg.Storage.KeyPrefix, map[string]string{
		collection.NameTrips: cfg.Search.TripsIndex,
		collection.NameLeads: cfg.Search.LeadsIndex,
	})
	for _, schema := range []collection.Schema{collection.Trips(), collection.Leads()} {
		if err := recordRepo.EnsureIndex(ctx, schema); err != nil {
			logger.Fatal("Failed to ensure index",
				zap.String("collection", schema.Name()),
				zap.Error(err),
			)
		}
	}

	// Geocoder chain: Google -> cache -> country validator
	geocodeTimeout := time.Duration(cfg.Search.GeocodeTimeoutMs) * time.Millisecond
	var geocoder countryuc.Geocoder = geocoding.New(geocoding.Config{
		BaseURL: cfg.Geo.BaseURL,
		APIKey:  cfg.Geo.APIKey,
		Timeout: geocodeTimeout,
		Logger:  logger,
	})
	if cfg.Geo.CacheTTLSec > 0 {
		geocoder = geocache.New(geocoder, store, cfg.Storage.KeyPrefix,
			time.Duration(cfg.Geo.CacheTTLSec)*time.Second, metrics.GeocodeCacheTotal, logger)
	}
	validator := countryuc.New(geocoder, cfg.Geo.HomeCountry, geocodeTimeout, logger)

	engine := searchuc.New(recordRepo, validator,
		time.Duration(cfg.Search.StageTimeoutMs)*time.Millisecond, logger)

	// Intent classifier
	completer, llmHealth := buildCompleter(ctx, cfg.LLM, logger)
	classifier := intentuc.NewClassifier(
		intentuc.NewInstrumentedCompleter(completer, cfg.LLM.Provider, cfg.LLM.Model, logger),
		intentuc.NewSessionStore(cfg.LLM.MaxHistoryTurns),
		time.Duration(cfg.LLM.TimeoutSec)*time.Second,
		logger,
	)
	logger.Info("Intent classifier created",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
	)

	catalog := audiouc.NewCatalog(cfg.Audio.BaseURL, cfg.Audio.Files)

	assistantSvc := assistantuc.New(classifier, validator, engine, catalog, logger).
		WithSearchLimits(cfg.Search.RadiusKm, cfg.Search.Limit)
	if cfg.Fraud.URL != "" {
		assistantSvc.WithFraudLookup(fraud.New(cfg.Fraud.URL, time.Duration(cfg.Fraud.TimeoutSec)*time.Second, logger))
	}
	if cfg.Analytics.URL != "" {
		analyticsTimeout := time.Duration(cfg.Analytics.TimeoutSec) * time.Second
		assistantSvc.WithAnalytics(analytics.New(cfg.Analytics.URL, analyticsTimeout, logger), analyticsTimeout)
	}

	speaker := openaiTransport.NewSpeaker(&openaiTransport.SpeakerConfig{
		APIKey:  cfg.TTS.APIKey,
		BaseURL: cfg.TTS.BaseURL,
		Model:   cfg.TTS.Model,
		Logger:  logger,
	})
	streamer := speechuc.NewStreamer(speaker, cfg.TTS.ChunkSize, logger)

	healthSvc := healthuc.New(store, llmHealth)

	server := chiTransport.NewServer(assistantSvc, streamer, healthSvc, chiTransport.Voices{
		Query:  cfg.TTS.QueryVoice,
		Stream: cfg.TTS.StreamVoice,
	}, logger)

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
	// Let in-flight analytics events finish; each is bounded by its own timeout.
	assistantSvc.Wait()

	logger.Info("Server stopped gracefully")
}

// completer is the chat provider plus its health probe.
type completer interface {
	intentuc.Completer
	healthuc.LLMChecker
}

// buildCompleter picks the LLM provider from config.
func buildCompleter(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (intentuc.Completer, healthuc.LLMChecker) {
	var c completer
	switch cfg.Provider {
	case "gemini":
		g, err := gemini.NewCompleter(ctx, &gemini.Config{
			Project:  cfg.Project,
			Location: cfg.Location,
			Model:    cfg.Model,
			Logger:   logger,
		})
		if err != nil {
			logger.Fatal("Failed to create Gemini client", zap.Error(err))
		}
		c = g
	default:
		c = openaiTransport.NewCompleter(&openaiTransport.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Logger:   logger,
		})
	}
	return c, c
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"detail": "Internal server error",
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

			// Canonical log line, one per request
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
