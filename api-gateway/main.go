package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"pizzeria-storefront/api-gateway/internal/gateway"
	"pizzeria-storefront/config"
	"pizzeria-storefront/logging"
)

func newRouter(cfg config.Config, client gateway.HTTPClient, log *logrus.Entry) http.Handler {
	gw := gateway.NewGateway(gateway.Config{
		StorefrontSvcURL: cfg.StorefrontSvcURL,
		HandoffSvcURL:    cfg.HandoffSvcURL,
	}, client, log)
	return gw.SetupRoutes()
}

func main() {
	cfg := config.Load(":8080")
	log := logging.New("api-gateway", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(cfg, &http.Client{Timeout: 15 * time.Second}, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("API Gateway starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down API Gateway")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
