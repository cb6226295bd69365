package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kiosk-admin-console/config"
	"kiosk-admin-console/internal/api"
	"kiosk-admin-console/internal/auth"
	"kiosk-admin-console/internal/cache"
	"kiosk-admin-console/internal/db"
	"kiosk-admin-console/internal/dialog"
	"kiosk-admin-console/internal/live"
	"kiosk-admin-console/internal/metrics"
	"kiosk-admin-console/internal/notification"
	"kiosk-admin-console/internal/resource"
	"kiosk-admin-console/internal/store"
	"kiosk-admin-console/internal/upstream"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

func main() {
	logger := log.New(os.Stdout, "kiosk-admin ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Upstream.BaseURL == "" {
		logger.Fatalf("upstream.base_url must be configured")
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("auth.jwt_secret (or JWT_SECRET) must be configured")
	}

	// Push alerts are optional; without VAPID keys the pool is not started.
	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Println("VAPID keys not configured, push alerts disabled")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	client := upstream.NewClient(cfg.Upstream, upstream.WithObserver(recorder))

	hub := cache.NewHub()
	cacheOpts := []cache.Option{cache.WithHub(hub), cache.WithRecorder(recorder)}
	var redisTier *cache.RedisTier
	if cfg.Redis.Addr != "" {
		redisTier = cache.NewRedisTier(cfg.Redis)
		if err := redisTier.Ping(ctx); err != nil {
			logger.Printf("redis at %s unreachable, using the local cache only: %v", cfg.Redis.Addr, err)
			redisTier.Close()
			redisTier = nil
		} else {
			cacheOpts = append(cacheOpts, cache.WithTier(redisTier))
			logger.Printf("shared cache tier enabled: %s", redisTier)
		}
	}
	responseCache := cache.New(cfg.Cache.TTL, cfg.Cache.Cleanup, cacheOpts...)
	if redisTier != nil {
		go redisTier.Listen(ctx, responseCache.ApplyRemote)
	}

	var alerts dialog.Dispatcher
	if webpushOptions != nil {
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.SetRecorder(recorder)
		pool.Start(ctx)
		alerts = pool
		logger.Printf("push alert worker pool started with %d workers", cfg.WorkerPool.Size)
	}

	views, err := api.NewViews()
	if err != nil {
		logger.Fatalf("failed to parse templates: %v", err)
	}
	validator := dialog.NewValidator()

	deps := resource.Deps{Client: client, Cache: responseCache, Audit: appStore, Query: cfg.Query}
	screens := resource.Default(deps)

	liveManager := live.NewManager(live.Options{
		Hub:         hub,
		Revalidator: responseCache,
		Prefs:       appStore,
		Renderer:    views,
		Debounce:    cfg.Query.SearchDebounce,
		Recorder:    recorder,
	})

	handler := api.NewHandler(api.Deps{
		Screens:    screens,
		Dialogs:    resource.DefaultDialogs(screens, deps, validator),
		Client:     client,
		Cache:      responseCache,
		Store:      appStore,
		Auth:       auth.NewManager(client, []byte(cfg.Auth.JWTSecret), cfg.Server.SecureCookies),
		Toaster:    notification.NewToaster(time.Duration(cfg.Server.ToastTTLSeconds) * time.Second),
		Alerts:     alerts,
		Live:       liveManager,
		Views:      views,
		Validator:  validator,
		WebPush:    webpushOptions,
		ExportFont: cfg.Server.ExportFontPath,
		Metrics:    recorder.Handler(),
	})

	router := api.NewRouter(handler, api.RouterOptions{
		RateLimit:   rate.Limit(cfg.Server.RateLimitPerSec),
		Burst:       cfg.Server.RateLimitBurst,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	// server.Shutdown does not track hijacked websocket connections.
	if err := liveManager.Shutdown(shutdownCtx); err != nil {
		logger.Printf("live sessions still open at shutdown deadline: %v", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}
	if redisTier != nil {
		redisTier.Close()
	}

	logger.Println("Server gracefully stopped")
}
