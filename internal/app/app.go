package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wrenfield/curator/internal/config"
	"github.com/wrenfield/curator/internal/feed"
	"github.com/wrenfield/curator/internal/httpserver"
	"github.com/wrenfield/curator/internal/httpserver/deps"
	"github.com/wrenfield/curator/internal/logger"
	"github.com/wrenfield/curator/internal/session"
	"github.com/wrenfield/curator/internal/social"
	"github.com/wrenfield/curator/internal/sources/catalog"
	mongostore "github.com/wrenfield/curator/internal/store/mongo"
	"github.com/wrenfield/curator/internal/store/rediscache"
	"github.com/wrenfield/curator/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	store    *mongostore.Store
	cache    *rediscache.Cache
	sessions *session.Manager
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Mongo holds the only durable state - fail fast if unavailable
	loggerClient.Infof("Connecting to MongoDB at %s", cfg.MongoDatabase)
	store, err := mongostore.Connect(context.Background(), mongostore.ConnectOptions{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
		Timeout:  cfg.MongoTimeout,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to MongoDB: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("MongoDB initialized successfully")

	// Redis is an optional upstream response cache; run uncached without it
	var cache *rediscache.Cache
	var feedCache feed.Cache
	if cfg.RedisAddr != "" {
		cache, err = rediscache.New(context.Background(), rediscache.ConnectOptions{
			Addr:     cfg.RedisAddr,
			User:     cfg.RedisUser,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("redis unavailable, running without upstream cache",
				logger.Error(err))
		} else {
			feedCache = cache
		}
	} else {
		loggerClient.Info("redis not configured, upstream cache disabled")
	}

	// Source adapters share one HTTP client and one cache
	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	feedClient := feed.NewClient(httpClient, feedCache, cfg.CacheTTL, loggerClient)
	dispatcher := feed.NewDispatcher(
		feed.NewNewsAdapter(feedClient, cfg.NYTAPIKey, cfg.GuardianAPIKey),
		feed.NewGovNoticeAdapter(feedClient),
		feed.NewCongressAdapter(feedClient, cfg.CongressAPIKey),
		feed.NewRSSAdapter(feedClient),
	)

	sessions := session.NewManager(store, dispatcher, loggerClient)

	socialClient := social.NewClient(httpClient, cfg.BlueskyHandle, cfg.BlueskyAppPassword)
	monitor := social.NewMonitor(socialClient, loggerClient)

	// Curated catalog is optional; an empty list just disables suggestions
	var entries []catalog.Entry
	if cfg.CatalogFile != "" {
		cfgCatalog, err := catalog.NewLoader(cfg.CatalogFile).Load()
		if err != nil {
			loggerClient.Warn("catalog load failed, suggestions disabled", logger.Error(err))
		} else if entries, err = catalog.NewMapper().MapEntries(cfgCatalog); err != nil {
			loggerClient.Warn("catalog mapping failed, suggestions disabled", logger.Error(err))
		} else {
			loggerClient.Info("catalog loaded",
				logger.String("file", cfg.CatalogFile),
				logger.Int("entries", len(entries)))
		}
	}

	readyChecks := map[string]func(context.Context) error{
		"mongo": store.Ping,
	}
	if cache != nil {
		readyChecks["redis"] = cache.Ping
	}

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		Sessions:       sessions,
		Monitor:        monitor,
		Catalog:        entries,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		ReadyChecks:    readyChecks,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   server,
		store:    store,
		cache:    cache,
		sessions: sessions,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Curator v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Curator %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sessions opened from here on live until logout or shutdown
	a.sessions.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if err := a.store.Close(shutdownCtx); err != nil {
		a.logger.Warnf("failed to close mongo: %v", err)
	} else {
		a.logger.Info("✅ MongoDB closed cleanly")
	}

	a.logger.Info("✅ Curator stopped cleanly")
	return nil
}
