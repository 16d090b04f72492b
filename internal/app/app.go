// Package app wires the site's components from configuration. It is shared
// by the server and the command-line tools.
package app

import (
	"context"
	"errors"
	"fmt"

	"church-site/internal/config"
	"church-site/internal/contact"
	"church-site/internal/firestore"
	"church-site/internal/logger"
	"church-site/internal/querycache"
	"church-site/internal/sanity"
	"church-site/internal/store"
)

// Closer releases a resource opened during wiring.
type Closer func() error

func nopCloser() error { return nil }

// NewLogger builds the logger described by cfg.
func NewLogger(cfg *config.Config) (logger.Logger, error) {
	return logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
}

// NewSanity returns the CMS client, or nil when the CMS is not configured.
func NewSanity(cfg *config.Config) (*sanity.Client, error) {
	c, err := sanity.New(sanity.Config{
		ProjectID:  cfg.SanityProjectID,
		Dataset:    cfg.SanityDataset,
		APIVersion: cfg.SanityAPIVersion,
		Token:      cfg.SanityToken,
		UseCDN:     cfg.SanityUseCDN,
	})
	if errors.Is(err, sanity.ErrNotConfigured) {
		return nil, nil
	}
	return c, err
}

// Fetcher adapts c to the query cache, keeping an unconfigured client nil.
func Fetcher(c *sanity.Client) querycache.Fetcher {
	if c == nil {
		return nil
	}
	return c
}

// OpenStore opens the GCS bucket when one is configured, otherwise a local directory.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, Closer, error) {
	if cfg.GCSBucket != "" {
		s, err := store.NewGCS(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing GCS store: %w", err)
		}
		log.Info("Store: GCS bucket", logger.String("bucket", cfg.GCSBucket))
		return s, s.Close, nil
	}

	s, err := store.NewLocal(cfg.StoreDir)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing local store: %w", err)
	}
	log.Info("Store: local directory", logger.String("dir", cfg.StoreDir))
	return s, nopCloser, nil
}

// OpenSubmissions returns Firestore-backed submission storage when a GCP
// project is configured, otherwise submissions go to s.
func OpenSubmissions(ctx context.Context, cfg *config.Config, s store.Store, log logger.Logger) (contact.Repository, Closer, error) {
	if cfg.GCPProjectID != "" {
		fs, err := firestore.New(ctx, cfg.GCPProjectID, cfg.FirestoreCollection)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Submissions: Firestore",
			logger.String("project", cfg.GCPProjectID),
			logger.String("collection", cfg.FirestoreCollection))
		return fs, fs.Close, nil
	}
	log.Info("Submissions: store")
	return contact.NewStoreRepository(s), nopCloser, nil
}

// OpenLimiter returns a Redis limiter when REDIS_ADDR is set, otherwise an
// in-process one. A limit of 0 disables rate limiting.
func OpenLimiter(ctx context.Context, cfg *config.Config, log logger.Logger) (contact.Limiter, Closer, error) {
	if cfg.ContactRateLimit == 0 {
		log.Info("Rate limiter: disabled")
		return nil, nopCloser, nil
	}
	if cfg.RedisAddr != "" {
		client, err := contact.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Rate limiter: Redis", logger.String("addr", cfg.RedisAddr))
		return contact.NewRedisLimiter(client, cfg.ContactRateLimit, cfg.ContactRateWindow), client.Close, nil
	}
	log.Info("Rate limiter: in-process")
	return contact.NewMemoryLimiter(cfg.ContactRateLimit, cfg.ContactRateWindow), nopCloser, nil
}
