package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"pizzeria-storefront/config"
	"pizzeria-storefront/logging"
	httpapi "pizzeria-storefront/storefront-svc/internal/api/http"
	"pizzeria-storefront/storefront-svc/internal/checkout"
	"pizzeria-storefront/storefront-svc/internal/service"
	"pizzeria-storefront/storefront-svc/internal/storage"
)

const sweepInterval = time.Minute

type app struct {
	router   http.Handler
	sessions *service.SessionService
}

func newApp(cfg config.Config, repo *storage.PostgresRepository, rdb *redis.Client, handoff checkout.Handoff, log *logrus.Entry) *app {
	var mirror service.CartMirror
	if rdb != nil {
		mirror = storage.NewRedisCartMirror(rdb, cfg.CartMirrorTTL)
	}

	sessions := service.NewSessionService(repo, repo, handoff, mirror, service.SessionConfig{
		Destination: cfg.HandoffDestination,
		TTL:         cfg.SessionTTL,
	}, log)
	handler := httpapi.NewHandler(
		service.NewMenuService(repo),
		sessions,
		service.NewOrderService(repo, service.DefaultQRGenerator{}, cfg.HandoffDestination, log),
		log,
	)

	return &app{router: httpapi.NewRouter(handler), sessions: sessions}
}

func handoffCompletion(log *logrus.Entry) func([]kafka.Message, error) {
	return func(messages []kafka.Message, err error) {
		for _, m := range messages {
			entry := log.WithField("order_id", string(m.Key))
			if err != nil {
				entry.WithError(err).Warn("[handoff] delivery failed")
				continue
			}
			entry.Debug("[handoff] delivered")
		}
	}
}

func main() {
	cfg := config.Load(":8081")
	log := logging.New("storefront-svc", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.WithError(err).Fatal("Failed to ensure schema")
	}

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	writer := config.NewKafkaWriter(cfg, cfg.HandoffTopic)
	writer.Async = true
	writer.Completion = handoffCompletion(log)
	defer writer.Close()

	a := newApp(cfg, repo, rdb, storage.NewKafkaHandoff(writer), log)
	go a.sessions.RunSweeper(ctx, sweepInterval)

	srv := httpapi.StartServer(cfg.HTTPAddr, a.router, log)

	<-ctx.Done()
	log.Info("Shutting down Storefront Service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
