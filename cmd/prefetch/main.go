package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"church-site/internal/app"
	"church-site/internal/config"
	"church-site/internal/content"
	"church-site/internal/logger"
	"church-site/internal/querycache"
)

// Prefetch runs offline, so each query gets longer than a page request would.
const prefetchFetchTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "prefetch: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Prefetch completed successfully")
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := app.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	sanityClient, err := app.NewSanity(cfg)
	if err != nil {
		return err
	}
	if sanityClient == nil {
		return fmt.Errorf("SANITY_PROJECT_ID and SANITY_DATASET are required")
	}

	s, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	repo := content.New(querycache.New(sanityClient,
		querycache.WithFetchTimeout(prefetchFetchTimeout),
		querycache.WithLogger(log)),
		content.WithSnapshots(s),
		content.WithLogger(log))

	// Generate batch ID for this run
	batchID := time.Now().UTC().Format("20060102-150405")
	log.Info("Starting prefetch", logger.String("batch_id", batchID))

	results := repo.Warm(ctx, batchID)
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			log.Error("Query failed", logger.String("query", res.Query), logger.Err(res.Err))
			failed++
			continue
		}
		log.Info("Snapshot stored", logger.String("query", res.Query), logger.Int("bytes", res.Bytes))
	}

	log.Info("Prefetch complete",
		logger.String("batch_id", batchID),
		logger.Int("queries", len(results)),
		logger.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed", failed, len(results))
	}
	return nil
}
