package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/app"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/telemetry"
	"storefront/internal/upstream"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	c := config.NewConfig()
	if err := config.Init(c, os.Args[1:]); err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}

	sugar, err := logger.NewLogger(c.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		_ = sugar.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{Endpoint: c.OTLPEndpoint, Insecure: c.OTLPInsecure})
	if err != nil {
		sugar.Fatalf("Failed to set up tracing: %v", err)
	}

	collector := metrics.NewCollector(nil)
	client := upstream.NewClient(c.UpstreamURL,
		upstream.WithTimeout(c.UpstreamTimeout),
		upstream.WithObserver(collector),
		upstream.WithLogger(sugar),
	)

	var responses *cache.Cache
	if c.CacheEnabled {
		responses = cache.New(upstream.FetchFunc(client),
			cache.WithTTL(c.CacheTTL),
			cache.WithOrigin(c.UpstreamURL),
			cache.WithRecorder(collector),
			cache.WithLogger(sugar),
		)
	}

	controller := handlers.NewController(c, client, responses, sugar)

	r := chi.NewRouter()
	app.InitMiddleware(r, c, controller)
	app.Routing(r, controller, collector.Handler())

	srv := app.CreateServer(c, r, sugar)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sugar.Infow("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return shutdownTracing(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalf("Server stopped with error: %v", err)
	}
}
