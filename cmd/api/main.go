package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pageinsights-api/internal/cache"
	"pageinsights-api/internal/config"
	"pageinsights-api/internal/handler"
	"pageinsights-api/internal/repository"
	"pageinsights-api/internal/router"
	"pageinsights-api/internal/scraper"
	"pageinsights-api/internal/service"
	"pageinsights-api/internal/summary"
)

func main() {
	cfg := config.MustLoad()

	log := newLogger(cfg.App)
	defer log.Sync()

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// Persistent store
	var (
		profileRepo  repository.ProfileRepository
		postRepo     repository.PostRepository
		followerRepo repository.FollowerRepository
		storePinger  handler.Pinger
		closeStore   func() error
	)
	switch cfg.Store.Type {
	case "mongodb", "mongo":
		m, err := repository.NewMongo(cfg.Store.MongoURI, cfg.Store.MongoDatabase, log)
		if err != nil {
			log.Fatal("mongodb initialization failed", zap.Error(err))
		}
		profileRepo = repository.NewMongoProfileRepository(m)
		postRepo = repository.NewMongoPostRepository(m)
		followerRepo = repository.NewMongoFollowerRepository(m)
		storePinger = m
		closeStore = m.Close
		log.Info("mongodb store initialized", zap.String("database", cfg.Store.MongoDatabase))
	default: // sqlite
		store, err := repository.NewSQLiteStore(cfg.Store.Path, log)
		if err != nil {
			log.Fatal("sqlite initialization failed", zap.Error(err))
		}
		profileRepo = repository.NewSQLiteProfileRepository(store)
		postRepo = repository.NewSQLitePostRepository(store)
		followerRepo = repository.NewSQLiteFollowerRepository(store)
		storePinger = store
		closeStore = store.Close
		log.Info("sqlite store initialized", zap.String("path", cfg.Store.Path))
	}
	defer closeStore()

	// Cache layer
	var backend cache.Cache
	switch cfg.Cache.Type {
	case "redis":
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Fatal("redis initialization failed", zap.Error(err))
		}
		backend = rc
		log.Info("redis cache initialized", zap.String("addr", cfg.Cache.RedisAddress()))
	default: // memory
		mem := cache.NewMemoryCache()
		defer mem.Close()
		backend = mem
		log.Info("in-memory cache initialized")
	}
	gateway := cache.NewGateway(backend, cfg.Cache.TTL, log)

	// Acquisition and summarization
	sc := scraper.NewLinkedInScraper(scraper.Config{
		BaseURL:   cfg.Scraper.BaseURL,
		Timeout:   cfg.Scraper.Timeout,
		UserAgent: cfg.Scraper.UserAgent,
	}, log)

	var summarizer summary.Summarizer = summary.Disabled{}
	if cfg.Summary.Enabled() {
		summarizer = summary.NewOpenAIClient(summary.Config{
			APIKey:  cfg.Summary.OpenAIKey,
			BaseURL: cfg.Summary.OpenAIBaseURL,
			Model:   cfg.Summary.Model,
			Timeout: cfg.Summary.Timeout,
		}, log)
		log.Info("summary generation enabled", zap.String("model", cfg.Summary.Model))
	}

	profileService := service.NewProfileService(
		profileRepo, postRepo, followerRepo, sc, gateway, summarizer, log)

	r := router.New(router.Config{
		ProfileHandler: handler.NewProfileHandler(profileService, cfg.Pagination),
		AdminHandler:   handler.NewAdminHandler(gateway, profileRepo, postRepo, followerRepo, cfg.Store.Type),
		HealthHandler:  handler.NewHealthHandler(cfg.App.Version, gateway, storePinger),
		Logger:         log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown did not complete cleanly", zap.Error(err))
	}
	log.Info("stopped")
}

func newLogger(app config.AppConfig) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if app.IsProduction() {
		log, err = zap.NewProduction()
	} else if app.Debug {
		log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		log, err = cfg.Build()
	}
	if err != nil {
		panic(err)
	}
	return log
}
