// Command subwardend serves the subscription-management API: subscription
// listing, billing portal session creation, and Stripe webhook ingestion.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/subwarden/subwarden/internal/config"
	"github.com/subwarden/subwarden/pkg/api"
	"github.com/subwarden/subwarden/pkg/billing"
	zerologadapter "github.com/subwarden/subwarden/pkg/billing/logger/zerolog"
	prommetrics "github.com/subwarden/subwarden/pkg/billing/metrics/prometheus"
	stripeprovider "github.com/subwarden/subwarden/pkg/billing/stripe"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Error().Err(err).Msg("configuration error")
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	billingLogger := zerologadapter.NewLogger(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := prommetrics.NewMetrics(registry, cfg.MetricsNamespace)

	provider, err := stripeprovider.NewProvider(stripeprovider.Config{
		Config: billing.Config{
			Logger:  billingLogger,
			Metrics: metrics,
			CustomerIDResolver: func(context.Context) (string, error) {
				return cfg.StripeCustomerID, nil
			},
		},
		StripeAPIKey:        cfg.StripeSecretKey,
		StripeWebhookSecret: cfg.StripeWebhookSecret,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create billing provider")
		os.Exit(1)
	}

	handler, err := api.NewHandler(api.Config{
		Provider:      provider,
		GetCustomerID: api.Static(cfg.StripeCustomerID),
		Logger:        billingLogger,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create API handler")
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/healthz/stripe", handler.ProbeProvider)
	r.Get("/subscriptions", handler.GetSubscriptions)
	r.Post("/portal-session", handler.CreatePortalSession)
	r.Method(http.MethodPost, "/webhook", provider.WebhookHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
