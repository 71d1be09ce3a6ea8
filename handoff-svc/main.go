package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizzeria-storefront/config"
	httpapi "pizzeria-storefront/handoff-svc/internal/api/http"
	"pizzeria-storefront/handoff-svc/internal/service"
	"pizzeria-storefront/handoff-svc/internal/storage"
	"pizzeria-storefront/logging"
)

func main() {
	cfg := config.Load(":8082")
	log := logging.New("handoff-svc", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	store := storage.NewStore(db, rdb, cfg.InboxSize)
	if err := store.EnsureSchema(ctx); err != nil {
		log.WithError(err).Fatal("Failed to ensure schema")
	}

	reader := config.NewKafkaReader(cfg, cfg.HandoffTopic, cfg.HandoffGroup)
	defer reader.Close()

	consumer := service.NewConsumer(reader, store, log)
	go consumer.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(store, log)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("Handoff Service starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Handoff Service stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
