package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GUARDIAN_API_KEY", "g-key")
	t.Setenv("MARKET_PROVIDER", "")
	t.Setenv("POST_OUTPUT_DIR", "")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, "g-key", cfg.GuardianAPIKey)
	assert.Equal(t, ProviderYahoo, cfg.MarketProvider)
	assert.Equal(t, "", cfg.OutputDir)
}

func TestLoadMissingGuardianKey(t *testing.T) {
	t.Setenv("GUARDIAN_API_KEY", "")

	_, err := Load()

	assert.Equal(t, true, errors.Is(err, ErrMissingEnv))
}

func TestLoadFinnhub(t *testing.T) {
	t.Setenv("GUARDIAN_API_KEY", "g-key")
	t.Setenv("MARKET_PROVIDER", "FinnHub")
	t.Setenv("FINNHUB_API_KEY", "")

	_, err := Load()
	assert.Equal(t, true, errors.Is(err, ErrMissingEnv))

	t.Setenv("FINNHUB_API_KEY", "f-key")
	cfg, err := Load()
	assert.Equal(t, nil, err)
	assert.Equal(t, ProviderFinnhub, cfg.MarketProvider)
	assert.Equal(t, "f-key", cfg.FinnhubAPIKey)
}

func TestLoadUnknownProvider(t *testing.T) {
	t.Setenv("GUARDIAN_API_KEY", "g-key")
	t.Setenv("MARKET_PROVIDER", "bloomberg")

	_, err := Load()

	assert.NotEqual(t, nil, err)
}

func TestLoadEnv(t *testing.T) {
	assert.Equal(t, nil, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))

	file := filepath.Join(t.TempDir(), ".env")
	assert.Equal(t, nil, os.WriteFile(file, []byte("POSTGEN_TEST_VALUE=from-file\n"), 0o644))
	t.Setenv("POSTGEN_TEST_VALUE", "")
	os.Unsetenv("POSTGEN_TEST_VALUE")

	assert.Equal(t, nil, LoadEnv(file))
	assert.Equal(t, "from-file", os.Getenv("POSTGEN_TEST_VALUE"))
}
