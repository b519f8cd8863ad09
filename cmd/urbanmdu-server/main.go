package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urbanclimate-tools/urbanmdu/internal/building"
	h3district "github.com/urbanclimate-tools/urbanmdu/internal/district/h3"
	"github.com/urbanclimate-tools/urbanmdu/internal/events"
	"github.com/urbanclimate-tools/urbanmdu/internal/geocore"
	"github.com/urbanclimate-tools/urbanmdu/internal/health"
	"github.com/urbanclimate-tools/urbanmdu/internal/ign"
	"github.com/urbanclimate-tools/urbanmdu/internal/logger"
	"github.com/urbanclimate-tools/urbanmdu/internal/metrics"
	"github.com/urbanclimate-tools/urbanmdu/internal/observability"
	"github.com/urbanclimate-tools/urbanmdu/internal/pipeline"
	"github.com/urbanclimate-tools/urbanmdu/internal/tilecache"
	"github.com/urbanclimate-tools/urbanmdu/internal/tilecache/memstore"
	"github.com/urbanclimate-tools/urbanmdu/internal/tilecache/redisstore"
	"github.com/urbanclimate-tools/urbanmdu/internal/tilecache/tiered"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := LoadConfig()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "urbanmdu-server",
	}, os.Stdout)

	zl.Info().
		Str("addr", cfg.Addr).
		Str("version", Version).
		Str("geodata", cfg.GeodataURL).
		Int("epsg", cfg.EPSG).
		Msg("starting urbanmdu-server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Cache tiers: in-process LRU always, Redis behind it when configured.
	var back tilecache.Interface
	ready := health.ReadyFunc(func() bool { return true })
	if cfg.RedisAddr != "" {
		rc, err := redisstore.New(ctx, cfg.RedisAddr)
		if err != nil {
			zl.Error().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable")
			return 1
		}
		defer func() { _ = rc.Close() }()
		back = rc
	}
	cache := tiered.New(memstore.New(cfg.CacheSize), back)

	ignClient, err := ign.NewClient(cfg.GeodataURL, zl,
		ign.WithCache(cache, cfg.CacheTTL))
	if err != nil {
		zl.Error().Err(err).Msg("geodata client setup failed")
		return 1
	}

	pipe := pipeline.New(geocore.New(cfg.EPSG), zl)
	pipe.Resolver = &building.Resolver{StoreyHeight: cfg.StoreyHeight}
	assigner := h3district.New(cfg.EPSG)
	assigner.Resolution = cfg.H3Resolution
	pipe.Assigner = assigner

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, zl)
		if err != nil {
			zl.Error().Err(err).Msg("kafka producer setup failed")
			return 1
		}
		defer func() { _ = producer.Close() }()
		pipe.Events = producer
	}

	if cfg.MetricsEnabled {
		p := metrics.Init(metrics.Config{
			Service: "urbanmdu",
			Build: metrics.BuildInfo{
				Version:   Version,
				Revision:  os.Getenv("BUILD_REVISION"),
				BuildDate: os.Getenv("BUILD_DATE"),
			},
		})
		p.Register(observability.Collectors()...)

		mux := http.NewServeMux()
		mux.Handle(cfg.MetricsPath, p.Handler())
		msrv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			zl.Info().Str("addr", cfg.MetricsAddr).Str("path", cfg.MetricsPath).Msg("metrics listen")
			if err := msrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zl.Error().Err(err).Msg("metrics server exited")
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = msrv.Shutdown(shutdownCtx)
		}()
	}

	s := &server{
		cfg:    cfg,
		logger: zl,
		pipe:   pipe,
		ign:    ignClient,
		ready:  ready,
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info().Str("addr", cfg.Addr).Msg("http listen")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		zl.Error().Err(err).Msg("server exited with error")
		return 1
	}
	zl.Info().Msg("server stopped")
	return 0
}
