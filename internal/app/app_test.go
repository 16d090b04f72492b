package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"church-site/internal/config"
	"church-site/internal/contact"
	"church-site/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		StoreDir:          filepath.Join(t.TempDir(), "disk"),
		ContactRateLimit:  2,
		ContactRateWindow: time.Hour,
	}
}

func TestSanityUnconfigured(t *testing.T) {
	c, err := NewSanity(testConfig(t))
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, Fetcher(c))
}

func TestSanityConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.SanityProjectID = "p1"
	cfg.SanityDataset = "production"

	c, err := NewSanity(cfg)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.NotNil(t, Fetcher(c))
}

func TestLocalWiring(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	log := logger.NewNop()

	s, closeStore, err := OpenStore(ctx, cfg, log)
	require.NoError(t, err)
	defer closeStore()

	repo, closeRepo, err := OpenSubmissions(ctx, cfg, s, log)
	require.NoError(t, err)
	defer closeRepo()
	assert.IsType(t, &contact.StoreRepository{}, repo)

	limiter, closeLimiter, err := OpenLimiter(ctx, cfg, log)
	require.NoError(t, err)
	defer closeLimiter()
	assert.IsType(t, &contact.MemoryLimiter{}, limiter)
}

func TestRedisLimiterWiring(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisAddr = mr.Addr()

	limiter, closeLimiter, err := OpenLimiter(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer closeLimiter()
	assert.IsType(t, &contact.RedisLimiter{}, limiter)
}

func TestLimiterDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.ContactRateLimit = 0

	limiter, _, err := OpenLimiter(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	assert.Nil(t, limiter)
}
