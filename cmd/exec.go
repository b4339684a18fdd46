package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smart-queue/config"
	"smart-queue/handlers"
	"smart-queue/internal/notify"
	"smart-queue/models"
	"smart-queue/monitoring"
	"smart-queue/security"
	"smart-queue/services"
	"smart-queue/utils"
)

func Start() error {
	// Load configuration
	cfg := config.LoadConfig()
	setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Redis
	redisClient, err := utils.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		slog.Info("redis disabled, rate limiting and redis notifications are off")
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	monitor := monitoring.NewMonitor(reg)

	// Notification sinks
	inbox := notify.NewInbox(0)
	sinks := []notify.Sink{inbox}
	if redisClient != nil {
		sinks = append(sinks, notify.NewRedisSink(redisClient))
	}
	if pn := notify.NewPubNub(cfg.PubNubPublishKey, cfg.PubNubSubscribeKey, cfg.PubNubSecretKey, cfg.PubNubUserID); pn != nil {
		sinks = append(sinks, notify.NewPubNubSink(pn))
	}
	dispatcher := notify.NewDispatcher(monitor, sinks...)

	// Initialize services
	random := services.NewRandom(cfg.RandomSeed)
	store := services.NewQueueStore(models.DefaultQueues(), random, cfg, monitor)
	tickets := services.NewTicketService(store, random, dispatcher, cfg, monitor)
	stats := services.NewStatsService(store, cfg)
	simulator := services.NewSimulator(store, tickets, stats, monitor, cfg.TickInterval)

	// Initialize handlers
	routes := handlers.Routes{
		Queue:   handlers.NewQueueHandler(store, tickets),
		Ticket:  handlers.NewTicketHandler(store, tickets, inbox),
		Admin:   handlers.NewAdminHandler(store, stats),
		Health:  handlers.NewHealthHandler(redisClient),
		Limiter: security.NewRateLimiter(redisClient, cfg.RateLimitPerMinute),
		Auth:    security.NewAdminAuth(cfg.AdminTokenHash, cfg.IsDevelopment()),
	}
	if cfg.EnableMetrics {
		routes.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
		routes.MetricsPath = cfg.MetricsPath
	}

	e := echo.New()
	handlers.RegisterRoutes(e, routes)
	slog.Info("server routes registered")

	// Start background tasks
	simulator.Start(ctx)
	defer simulator.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		close(errCh)
	}()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-sigChan:
		slog.Info("shutdown signal received, cleaning up")
	}

	cancel()
	simulator.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func setupLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}
