// Package config loads site configuration from the environment.
//
// Values are read from process environment variables after optional .env
// files have been loaded. Files are applied in this order, earlier files
// never overriding variables that are already set:
//
//  1. ENV_FILE (if set, only this file is loaded)
//  2. .env.local
//  3. .env
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort                = "8080"
	defaultSanityAPIVersion    = "2024-01-01"
	defaultStoreDir            = "disk"
	defaultFirestoreCollection = "contact_submissions"
	defaultLogLevel            = "info"
	defaultContactRateLimit    = 5
	defaultContactRateWindow   = time.Hour
)

// Config holds everything the binaries need to start.
type Config struct {
	Port string

	// TrustProxy honours X-Forwarded-For and X-Real-IP. Enable it only
	// behind a proxy that overwrites those headers.
	TrustProxy bool

	SanityProjectID  string
	SanityDataset    string
	SanityAPIVersion string
	SanityToken      string
	SanityUseCDN     bool
	StudioURL        string

	LogLevel       string
	LogDevelopment bool

	GCSBucket string
	StoreDir  string

	GCPProjectID        string
	FirestoreCollection string

	RedisAddr     string
	RedisPassword string

	ContactRateLimit  int
	ContactRateWindow time.Duration
}

// SanityConfigured reports whether the CMS credentials are present.
func (c *Config) SanityConfigured() bool {
	return c.SanityProjectID != "" && c.SanityDataset != ""
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT %q is not a number", c.Port))
	}
	if c.SanityProjectID != "" && c.SanityDataset == "" {
		errs = append(errs, errors.New("SANITY_DATASET is required when SANITY_PROJECT_ID is set"))
	}
	if c.ContactRateLimit < 0 {
		errs = append(errs, fmt.Errorf("CONTACT_RATE_LIMIT must not be negative, got %d", c.ContactRateLimit))
	}
	if c.ContactRateWindow <= 0 {
		errs = append(errs, fmt.Errorf("CONTACT_RATE_WINDOW must be positive, got %s", c.ContactRateWindow))
	}
	if c.StudioURL != "" && !strings.HasPrefix(c.StudioURL, "http://") && !strings.HasPrefix(c.StudioURL, "https://") {
		errs = append(errs, fmt.Errorf("STUDIO_URL %q must be an absolute http(s) URL", c.StudioURL))
	}
	return errors.Join(errs...)
}

// Load reads .env files and the environment and returns a validated Config.
func Load() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:                stringOr(getenv("PORT"), defaultPort),
		SanityProjectID:     strings.TrimSpace(getenv("SANITY_PROJECT_ID")),
		SanityDataset:       strings.TrimSpace(getenv("SANITY_DATASET")),
		SanityAPIVersion:    stringOr(getenv("SANITY_API_VERSION"), defaultSanityAPIVersion),
		SanityToken:         getenv("SANITY_TOKEN"),
		StudioURL:           strings.TrimRight(getenv("STUDIO_URL"), "/"),
		LogLevel:            stringOr(getenv("LOG_LEVEL"), defaultLogLevel),
		GCSBucket:           getenv("GCS_BUCKET"),
		StoreDir:            stringOr(getenv("STORE_DIR"), defaultStoreDir),
		GCPProjectID:        getenv("GCP_PROJECT_ID"),
		FirestoreCollection: stringOr(getenv("FIRESTORE_COLLECTION"), defaultFirestoreCollection),
		RedisAddr:           getenv("REDIS_ADDR"),
		RedisPassword:       getenv("REDIS_PASSWORD"),
		ContactRateLimit:    defaultContactRateLimit,
		ContactRateWindow:   defaultContactRateWindow,
	}

	var err error
	if cfg.SanityUseCDN, err = boolOr(getenv("SANITY_USE_CDN"), true); err != nil {
		return nil, fmt.Errorf("SANITY_USE_CDN: %w", err)
	}
	if cfg.TrustProxy, err = boolOr(getenv("TRUST_PROXY"), false); err != nil {
		return nil, fmt.Errorf("TRUST_PROXY: %w", err)
	}
	if cfg.LogDevelopment, err = boolOr(getenv("LOG_DEVELOPMENT"), false); err != nil {
		return nil, fmt.Errorf("LOG_DEVELOPMENT: %w", err)
	}
	if v := getenv("CONTACT_RATE_LIMIT"); v != "" {
		if cfg.ContactRateLimit, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("CONTACT_RATE_LIMIT: %w", err)
		}
	}
	if v := getenv("CONTACT_RATE_WINDOW"); v != "" {
		if cfg.ContactRateWindow, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("CONTACT_RATE_WINDOW: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func stringOr(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func boolOr(v string, def bool) (bool, error) {
	if v = strings.TrimSpace(v); v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}
