package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"angdelivery/internal/app"
	"angdelivery/internal/config"
	"angdelivery/internal/http/middleware"
	"angdelivery/internal/http/middleware/ratelimit"
	"angdelivery/internal/http/pprofserver"
	"angdelivery/internal/logx"
	"angdelivery/internal/metrics"
	"angdelivery/internal/stub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	ctxSignals, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := app.NewLogger()
	defer func() { _ = logger.Sync() }()

	store := stub.NewStore()
	handlers := stub.NewHandlers(store, logger)

	chain := []func(http.Handler) http.Handler{
		middleware.Observability(logger),
	}
	if cfg.Stub.RateLimitRPS > 0 {
		denied := metrics.NewRateLimitExceededTotal()
		prometheus.MustRegister(denied)
		limiter := ratelimit.NewTokenBucketLimiter(nil, ratelimit.Config{
			Rate:  float64(cfg.Stub.RateLimitRPS),
			Burst: cfg.Stub.RateLimitBurst,
			TTL:   10 * time.Minute,
		})
		chain = append(chain, ratelimit.New(logger, denied, limiter).Handler())
	}

	mux := http.NewServeMux()
	mux.Handle("/", stub.NewRouter(handlers, chain...))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", pprofserver.Handler(pprofserver.Config{
		User: os.Getenv("PPROF_USER"),
		Pass: os.Getenv("PPROF_PASS"),
	}))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Stub.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("server close error: %v", err)
		}
	}()

	go func() {
		logger.Info("devstub listening", logx.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	<-ctxSignals.Done()
	logger.Info("shutting down devstub")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}
