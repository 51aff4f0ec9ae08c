package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dchgoh/SWE30003-ART-System/internal/api"
	"github.com/dchgoh/SWE30003-ART-System/internal/application/factories/infrastructure"
	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/config"
	"github.com/dchgoh/SWE30003-ART-System/internal/gateway"
	"github.com/dchgoh/SWE30003-ART-System/internal/usecase"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	store, err := infraFactory.Store(ctx)
	if err != nil {
		logger.Error("failed to build record store", "error", err, "backend", cfg.Store.Backend)
		os.Exit(1)
	}

	redisClient, err := infraFactory.Redis(ctx)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	clk := clock.NewSystem()
	gw := gateway.AutoApprove{}

	ledger := usecase.NewInventoryLedger(store.Trips)
	orders := usecase.NewOrderService(store.Orders, store.LineItems, clk)
	payments := usecase.NewPaymentProcessor(store.Payments, gw, clk)
	issuer := usecase.NewTicketIssuer(store.Tickets, clk)
	catalogue := usecase.NewTripCatalogue(store.Trips)
	accounts := usecase.NewUserAccounts(store.Users, clk)
	notifier := usecase.NewNotifier(store.Notifications, store.Outbox, clk)
	desk := usecase.NewFeedbackDesk(store.Feedback, store.Responses, notifier, clk)
	network := usecase.NewTransitNetwork(store.Routes, store.Stops, store.Locations)

	bookTrip := usecase.NewBookTrip(store.Trips, ledger, orders, payments, issuer, logger)
	refundOrder := usecase.NewRefundOrder(
		orders, store.Orders, store.Tickets, issuer,
		payments, store.Payments, store.Refunds,
		ledger, gw, clk, logger,
	)

	tokens := api.NewTokenIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, clk)
	handlers := api.NewHandlers(accounts, tokens, catalogue, bookTrip, refundOrder, orders, store.Tickets, desk, network, notifier)
	router := api.NewRouter(handlers, redisClient, []byte(cfg.Auth.JWTSecret))

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "app", cfg.App.Name, "port", cfg.HTTP.Port, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exiting")
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
