// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/avery-dunn/nutriguide/internal/auth"
	"github.com/avery-dunn/nutriguide/internal/cache"
	"github.com/avery-dunn/nutriguide/internal/friends"
	"github.com/avery-dunn/nutriguide/internal/handlers"
	"github.com/avery-dunn/nutriguide/internal/metrics"
	"github.com/avery-dunn/nutriguide/internal/middleware"
	"github.com/avery-dunn/nutriguide/internal/notify"
	"github.com/avery-dunn/nutriguide/internal/presence"
	"github.com/avery-dunn/nutriguide/internal/reminder"
	"github.com/avery-dunn/nutriguide/internal/social"
	"github.com/avery-dunn/nutriguide/internal/store"
)

func main() {
	logger := logrus.New()
	if os.Getenv("DEV_MODE") == "true" {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := auth.Init(); err != nil {
		logger.Fatalf("failed to initialize auth: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var st store.Store
	if os.Getenv("DEV_MODE") == "true" && os.Getenv("DATABASE_URL") == "" {
		logger.Warn("running with in-memory store; data will not survive restarts")
		st = store.NewMemory()
	} else {
		pg, err := store.ConnectPostgres(ctx)
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pg.Close()
		if err := pg.Migrate(); err != nil {
			logger.Fatalf("failed to run migrations: %v", err)
		}
		st = pg
	}

	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, notification queue disabled: %v", err)
		cache.Rdb = nil
	}

	m := metrics.New()
	registry := presence.NewRegistry(logger)
	registry.SetHooks(m.PushesDropped.Inc, m.SessionsEvicted.Inc)

	notifier := notify.NewNotifier(st, registry, m, logger)
	friendSvc := friends.NewService(st, notifier, logger)
	socialSvc := social.NewService(st, notifier, registry, logger)

	evaluator := reminder.NewEvaluator(st, notifier, reminder.SystemClock(), m, logger)
	go evaluator.Run(ctx)

	srv := handlers.NewServer(st, notifier, friendSvc, socialSvc, registry, logger)

	mux := http.NewServeMux()
	srv.Routes(mux)
	mux.Handle("GET /metrics", m.Handler())

	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer limiter.Stop()
	handler := middleware.LogMiddleware(logger)(limiter.Middleware(mux))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("Running on %s", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		logger.Fatalf("server exited: %v", err)
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("shutdown error: %v", err)
		}
	}
}
