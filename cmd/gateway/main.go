package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/go-co-op/gocron"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zephapay/onboarding-gateway/internal/config"
	"github.com/zephapay/onboarding-gateway/internal/kvstore"
	"github.com/zephapay/onboarding-gateway/internal/metrics"
	"github.com/zephapay/onboarding-gateway/internal/portal"
	"github.com/zephapay/onboarding-gateway/internal/sessions"
	"golang.org/x/time/rate"
)

func main() {
	// Logging setup
	slog.SetDefault(jsonLogger)
	// Load configuration
	ch := config.NewConfigHandler()
	gwConfig, err := ch.Config()
	if err != nil {
		slog.Error("loading the configuration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("loaded config", "config", gwConfig)
	// Set log level to "debug" if activated
	setLogLevel(gwConfig.DebugMode)
	// Only the log level is picked up without a restart
	ch.HandleChanges(func(newConfig config.Config, err error) {
		if err != nil {
			slog.Error("the changed config is invalid and was ignored", "error", err)
			return
		}
		setLogLevel(newConfig.DebugMode)
	})
	ch.Watch()
	// Setup
	e := echo.New()
	e.Pre(requestID, middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	// The banner and the port do not respect the logger formatting we set below so we remove them
	// the port will be logged further down when the server starts.
	e.HideBanner = true
	e.HidePort = true
	// Version endpoint
	buildInfo, ok := debug.ReadBuildInfo()
	version := ""
	if ok && buildInfo != nil {
		version = buildInfo.Main.Version
	}
	// Initialize the key-value store
	if gwConfig.Store.EncryptionKey != "" {
		slog.Info("store encryption is enabled")
	}
	store, err := kvstore.New(gwConfig.Store)
	if err != nil {
		slog.Error("key-value store initialization failed", "error", err)
		os.Exit(1)
	}
	// All periodic work shares one scheduler
	scheduler := gocron.NewScheduler(time.UTC)
	if purger, ok := store.(interface{ Purge() int }); ok {
		_, err = scheduler.Every(5 * time.Minute).Do(func() {
			slog.Debug("purged expired store entries", "count", purger.Purge())
		})
		if err != nil {
			slog.Error("scheduling the store cleanup failed", "error", err)
			os.Exit(1)
		}
	}
	// Create session store
	sessionStore, err := sessions.NewSessionStore(
		sessions.WithBackend(store),
		sessions.WithConfig(gwConfig.Sessions),
		sessions.WithDataKeys(portal.DataKeys()...),
	)
	if err != nil {
		slog.Error("failed to initialize sessions", "error", err)
		os.Exit(1)
	}
	// Metrics and analytics
	authMetrics, err := metrics.NewAuthMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		slog.Error("auth metrics initialization failed", "error", err)
		os.Exit(1)
	}
	registryOptions := []portal.ClientRegistryOption{
		portal.WithUpstreamConfig(gwConfig.Upstream),
		portal.WithScheduler(scheduler),
		portal.WithWatchInterval(gwConfig.Watcher.Interval),
		portal.WithSessionMetrics(authMetrics),
	}
	serverOptions := []portal.ServerOption{
		portal.WithBasePath(gwConfig.Server.BasePath),
		portal.WithSessionStore(sessionStore),
		portal.WithVersion(version),
	}
	if pinger, ok := store.(interface{ Ping(context.Context) error }); ok {
		serverOptions = append(serverOptions, portal.WithHealthCheck(pinger.Ping))
	}
	var posthogClient *metrics.PosthogMetricsClient
	if gwConfig.Monitoring.Posthog.Enabled {
		posthogClient, err = metrics.NewPosthogClient(
			string(gwConfig.Monitoring.Posthog.ApiKey),
			gwConfig.Monitoring.Posthog.Host,
			gwConfig.Monitoring.Posthog.Environment,
		)
		if err != nil {
			slog.Error("posthog initialization failed", "error", err)
			os.Exit(1)
		}
		registryOptions = append(registryOptions, portal.WithLoginEvents(posthogClient))
		serverOptions = append(serverOptions, portal.WithEvents(posthogClient))
	}
	// Initialize the per session API clients
	registry, err := portal.NewClientRegistry(registryOptions...)
	if err != nil {
		slog.Error("client registry initialization failed", "error", err)
		os.Exit(1)
	}
	_, err = scheduler.Every(time.Minute).Do(func() {
		slog.Debug("dropped the clients of expired sessions", "count", registry.Purge())
	})
	if err != nil {
		slog.Error("scheduling the client cleanup failed", "error", err)
		os.Exit(1)
	}
	scheduler.StartAsync()
	// Initialize the portal
	server, err := portal.NewServer(append(serverOptions, portal.WithClientRegistry(registry))...)
	if err != nil {
		slog.Error("portal handlers initialization failed", "error", err)
		os.Exit(1)
	}
	server.RegisterHandlers(e, commonMiddlewares...)
	// Rate limiting
	if gwConfig.Server.RateLimits.Enabled {
		e.Use(middleware.RateLimiter(
			middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(gwConfig.Server.RateLimits.Rate),
					Burst:     gwConfig.Server.RateLimits.Burst,
					ExpiresIn: 3 * time.Minute,
				}),
		),
		)
	}
	// CORS
	if len(gwConfig.Server.AllowOrigin) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: gwConfig.Server.AllowOrigin, AllowCredentials: true}))
	}
	// Sentry
	if gwConfig.Monitoring.Sentry.Enabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              string(gwConfig.Monitoring.Sentry.Dsn),
			TracesSampleRate: gwConfig.Monitoring.Sentry.SampleRate,
			Environment:      gwConfig.Monitoring.Sentry.Environment,
		})
		if err != nil {
			slog.Error("sentry initialization failed", "error", err)
		}
		e.Use(sentryecho.New(sentryecho.Options{}))
	}
	// Prometheus
	if gwConfig.Monitoring.Prometheus.Enabled {
		e.Use(echoprometheus.NewMiddleware("gateway"))
		go func() {
			metricsServer := echo.New()
			metricsServer.HideBanner = true
			metricsServer.HidePort = true
			metricsServer.GET("/metrics", echoprometheus.NewHandler())
			err := metricsServer.Start(fmt.Sprintf(":%d", gwConfig.Monitoring.Prometheus.Port))
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("prometheus server failed to start", "error", err)
				os.Exit(1)
			}
		}()
	}
	// Start server
	address := fmt.Sprintf("%s:%d", gwConfig.Server.Host, gwConfig.Server.Port)
	slog.Info("starting the server on address " + address)
	go func() {
		err := e.Start(address)
		if err != nil && err != http.ErrServerClosed {
			slog.Error("shutting down the server gracefuly failed", "error", err)
			os.Exit(1)
		}
	}()
	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("received signal to shut down the server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = e.Shutdown(ctx)
	scheduler.Stop()
	registry.Close()
	if posthogClient != nil {
		posthogClient.Close()
	}
	sentry.Flush(2 * time.Second)
	if err != nil {
		slog.Error("shutting down the server gracefully failed", "error", err)
		os.Exit(1)
	}
}
