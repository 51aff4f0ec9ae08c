package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dchgoh/SWE30003-ART-System/internal/application/factories/infrastructure"
	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/config"
	"github.com/dchgoh/SWE30003-ART-System/internal/infrastructure/kafka"
	"github.com/dchgoh/SWE30003-ART-System/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	store, err := infraFactory.Store(ctx)
	if err != nil {
		logger.Error("failed to build record store", "error", err, "backend", cfg.Store.Backend)
		os.Exit(1)
	}

	kafkaProd := kafka.NewProducer(kafka.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer kafkaProd.Close()

	// Worker metrics live on their own port, away from the API server.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("worker metrics listening", "addr", ":9093")
		if err := http.ListenAndServe(":9093", mux); err != nil {
			logger.Error("metrics server stopped", "error", err)
		}
	}()

	poller := worker.NewOutboxPoller(store.Outbox, kafkaProd, clock.NewSystem(), logger)
	if err := poller.Run(ctx); err != nil {
		logger.Error("worker stopped with error", "error", err)
	}

	logger.Info("worker exited")
}
