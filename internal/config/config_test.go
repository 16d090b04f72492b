package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "2024-01-01", cfg.SanityAPIVersion)
	assert.True(t, cfg.SanityUseCDN)
	assert.Equal(t, "disk", cfg.StoreDir)
	assert.Equal(t, "contact_submissions", cfg.FirestoreCollection)
	assert.Equal(t, 5, cfg.ContactRateLimit)
	assert.Equal(t, time.Hour, cfg.ContactRateWindow)
	assert.False(t, cfg.SanityConfigured())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"PORT":                "9000",
		"SANITY_PROJECT_ID":   " abc123 ",
		"SANITY_DATASET":      "production",
		"SANITY_USE_CDN":      "false",
		"STUDIO_URL":          "https://church.sanity.studio/",
		"CONTACT_RATE_LIMIT":  "10",
		"CONTACT_RATE_WINDOW": "15m",
		"LOG_DEVELOPMENT":     "true",
		"TRUST_PROXY":         "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "abc123", cfg.SanityProjectID)
	assert.False(t, cfg.SanityUseCDN)
	assert.Equal(t, "https://church.sanity.studio", cfg.StudioURL)
	assert.Equal(t, 10, cfg.ContactRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.ContactRateWindow)
	assert.True(t, cfg.LogDevelopment)
	assert.True(t, cfg.TrustProxy)
	assert.True(t, cfg.SanityConfigured())
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric port", map[string]string{"PORT": "http"}},
		{"project without dataset", map[string]string{"SANITY_PROJECT_ID": "abc"}},
		{"bad bool", map[string]string{"SANITY_USE_CDN": "maybe"}},
		{"bad trust proxy", map[string]string{"TRUST_PROXY": "sometimes"}},
		{"bad rate limit", map[string]string{"CONTACT_RATE_LIMIT": "many"}},
		{"negative rate limit", map[string]string{"CONTACT_RATE_LIMIT": "-1"}},
		{"bad window", map[string]string{"CONTACT_RATE_WINDOW": "soon"}},
		{"relative studio url", map[string]string{"STUDIO_URL": "/studio"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envMap(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.env")
	require.NoError(t, os.WriteFile(path, []byte("SANITY_PROJECT_ID=fromfile\nSANITY_DATASET=staging\n"), 0644))

	t.Setenv("ENV_FILE", path)
	t.Setenv("SANITY_PROJECT_ID", "")
	t.Setenv("SANITY_DATASET", "")
	os.Unsetenv("SANITY_PROJECT_ID")
	os.Unsetenv("SANITY_DATASET")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.SanityProjectID)
	assert.Equal(t, "staging", cfg.SanityDataset)
}
