package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"church-site/internal/app"
	"church-site/internal/config"
	"church-site/internal/contact"
	"church-site/internal/content"
	"church-site/internal/logger"
	"church-site/internal/metrics"
	"church-site/internal/querycache"
	"church-site/internal/web"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Initialize CMS client (nil when unconfigured)
	sanityClient, err := app.NewSanity(cfg)
	if err != nil {
		return fmt.Errorf("initializing CMS client: %w", err)
	}
	if sanityClient == nil {
		log.Warn("CMS not configured, serving built-in content")
	} else {
		log.Info("CMS configured",
			logger.String("project", sanityClient.ProjectID()),
			logger.String("dataset", sanityClient.Dataset()))
	}

	// Initialize store (GCS or local)
	s, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	submissions, closeSubmissions, err := app.OpenSubmissions(ctx, cfg, s, log)
	if err != nil {
		return err
	}
	defer closeSubmissions()

	limiter, closeLimiter, err := app.OpenLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	cache := querycache.New(app.Fetcher(sanityClient),
		querycache.WithObserver(m),
		querycache.WithLogger(log.With(logger.String("component", "querycache"))))
	repo := content.New(cache,
		content.WithSnapshots(s),
		content.WithLogger(log.With(logger.String("component", "content"))))

	opts := web.Options{
		Content:    repo,
		Contact:    contact.NewService(submissions, limiter, log.With(logger.String("component", "contact"))),
		Metrics:    m,
		Logger:     log,
		StudioURL:  cfg.StudioURL,
		TrustProxy: cfg.TrustProxy,
	}
	if sanityClient != nil {
		opts.Images = sanityClient
	}
	handler, err := web.New(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", logger.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
