package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-usage/internal/api"
	"fleet-usage/internal/api/handlers"
	"fleet-usage/internal/config"
	"fleet-usage/internal/data"
	"fleet-usage/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("FLEET_CONFIG"), "Path to YAML config")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.Must(cfg.Server.Env)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := data.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatal("open data source", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer src.Close()

	ttl, _ := cfg.CacheTTL()
	cached := data.NewCachedSource(src, ttl)
	go cached.Run(ctx, ttl)

	// Set up Gin router
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.NewHandler(cached, cfg.Reconciler, cfg.Report.Concurrency, log)
	router := api.NewRouter(h, cfg.Server.AllowedOrigins, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	// Start server
	log.Info("starting API server",
		zap.String("addr", srv.Addr),
		zap.String("store", cfg.Store.Driver),
		zap.Duration("cache_ttl", ttl),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server failed", zap.Error(err))
	}
	log.Info("server stopped")
}
