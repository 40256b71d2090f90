package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carbonmarket/carbon-marketplace/internal/api/handlers"
	"github.com/carbonmarket/carbon-marketplace/internal/api/middleware"
	"github.com/carbonmarket/carbon-marketplace/internal/backing/memory"
	"github.com/carbonmarket/carbon-marketplace/internal/config"
	"github.com/carbonmarket/carbon-marketplace/internal/health"
	"github.com/carbonmarket/carbon-marketplace/internal/metrics"
	"github.com/carbonmarket/carbon-marketplace/internal/state"
	"github.com/carbonmarket/carbon-marketplace/internal/telemetry"
	"github.com/carbonmarket/carbon-marketplace/internal/worker"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "carbon-marketplace", cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		logger.Error("Failed to initialize tracing", slog.Any("error", err))
		os.Exit(1)
	}

	var persist state.Store
	if cfg.Mock.Persist {
		persist, err = state.NewFileStore(cfg.State.Dir)
		if err != nil {
			logger.Error("Failed to open state directory", slog.Any("error", err))
			os.Exit(1)
		}
	}

	store := memory.NewStore(persist)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		logger.Error("Failed to initialize health checks", slog.Any("error", err))
		os.Exit(1)
	}

	projectHandler := handlers.NewProjectHandler(store)
	batchHandler := handlers.NewBatchHandler(store)
	orderHandler := handlers.NewOrderHandler(store)
	eventHandler := handlers.NewEventHandler(store)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/projects", projectHandler.ListProjects())
	mux.HandleFunc("POST /api/v1/projects", projectHandler.CreateProject())
	mux.HandleFunc("GET /api/v1/projects/{id}", projectHandler.GetProject())
	mux.HandleFunc("PUT /api/v1/projects/{id}", projectHandler.UpdateProject())
	mux.HandleFunc("DELETE /api/v1/projects/{id}", projectHandler.DeleteProject())
	mux.HandleFunc("GET /api/v1/aggregate/project/{id}", projectHandler.GetAggregate())

	mux.HandleFunc("GET /api/v1/batches", batchHandler.ListBatches())
	mux.HandleFunc("POST /api/v1/batches", batchHandler.CreateBatch())
	mux.HandleFunc("GET /api/v1/batches/{id}", batchHandler.GetBatch())
	mux.HandleFunc("PUT /api/v1/batches/{id}", batchHandler.UpdateBatch())
	mux.HandleFunc("DELETE /api/v1/batches/{id}", batchHandler.DeleteBatch())

	mux.HandleFunc("GET /api/v1/orders", orderHandler.ListOrders())
	mux.HandleFunc("POST /api/v1/orders", orderHandler.CreateOrder())
	mux.HandleFunc("GET /api/v1/orders/{id}", orderHandler.GetOrder())
	mux.HandleFunc("PUT /api/v1/orders/{id}", orderHandler.UpdateOrder())

	mux.HandleFunc("POST /api/v1/events/ingest", eventHandler.Ingest())

	mux.Handle("GET /health", healthHandler.Handler())
	mux.Handle("GET /metrics", metrics.Handler())

	idempotency := middleware.NewIdempotency(0)

	var handler http.Handler = mux
	handler = idempotency.Handler(handler)
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "carbon-marketplace")

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.Mock.AutoSettle {
		settlement := worker.NewSettlement(store, cfg.Mock.SettleInterval)
		go settlement.Run(ctx)
	}

	go func() {
		logger.Info("Starting mock marketplace API", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.Any("error", err))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Tracer shutdown failed", slog.Any("error", err))
	}

	logger.Info("Server stopped")
}
