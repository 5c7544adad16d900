package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/pagekit/core/config"
	"github.com/dmitrymomot/pagekit/core/cookie"
	"github.com/dmitrymomot/pagekit/core/dispatch"
	"github.com/dmitrymomot/pagekit/core/health"
	"github.com/dmitrymomot/pagekit/core/logger"
	"github.com/dmitrymomot/pagekit/core/metrics"
	"github.com/dmitrymomot/pagekit/core/server"
	"github.com/dmitrymomot/pagekit/core/session"
	"github.com/dmitrymomot/pagekit/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg)

	log := newLogger(cfg)

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open session storage", logger.Component("session"), logger.Error(err))
		os.Exit(1)
	}
	defer st.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(metrics.WithNamespace(cfg.MetricsNamespace), metrics.WithRegistry(registry))

	store, err := session.NewStore(ctx, st.backend,
		session.WithConfig(cfg.Session),
		session.WithLogger(log.With(logger.Component("session"))),
		session.WithOnSave(collector.ObserveSessionSave),
	)
	if err != nil {
		log.Error("Failed to load session store", logger.Component("session"), logger.Error(err))
		os.Exit(1)
	}

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		log.Error("Failed to create cookie manager", logger.Component("cookie"), logger.Error(err))
		os.Exit(1)
	}

	d := dispatch.New(store,
		dispatch.WithConfig(cfg.Dispatch),
		dispatch.WithLogger(log.With(logger.Component("dispatch"))),
		dispatch.WithCookie(cookies),
		dispatch.WithViews(newViews()),
		dispatch.WithMetrics(collector),
	)
	registerRoutes(d)

	mux := http.NewServeMux()
	mux.Handle("GET /health/live", health.Liveness())
	mux.Handle("GET /health/ready", health.Readiness(log, st.checks...))
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.Handle("/", middleware.Chain(d,
		middleware.RequestID(),
		middleware.Logging(log.With(logger.Component("http.request"))),
		middleware.BodyLimit(cfg.BodyLimit),
	))

	s, err := server.NewFromConfig(cfg.Server, server.WithLogger(log.With(logger.Component("server"))))
	if err != nil {
		log.Error("Failed to create server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(s.Run(ctx, mux))

	if err := eg.Wait(); err != nil {
		log.Error("Failed to run server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped")
}

func newLogger(cfg Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	opts := []logger.Option{
		logger.WithLevel(level),
		logger.WithAttr(slog.String("service", cfg.AppName)),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	}
	if cfg.LogJSON {
		opts = append(opts, logger.WithJSONFormatter())
	}
	return logger.New(opts...)
}
