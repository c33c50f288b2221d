package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderYahoo   = "yahoo"
	ProviderFinnhub = "finnhub"
)

var ErrMissingEnv = errors.New("environment variable is not set")

type Config struct {
	GuardianAPIKey string
	MarketProvider string
	FinnhubAPIKey  string
	OutputDir      string
}

// LoadEnv loads a .env file when one exists. A missing file is not an error.
func LoadEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func Load() (*Config, error) {
	cfg := &Config{
		GuardianAPIKey: os.Getenv("GUARDIAN_API_KEY"),
		MarketProvider: strings.ToLower(os.Getenv("MARKET_PROVIDER")),
		FinnhubAPIKey:  os.Getenv("FINNHUB_API_KEY"),
		OutputDir:      os.Getenv("POST_OUTPUT_DIR"),
	}

	if cfg.GuardianAPIKey == "" {
		return nil, fmt.Errorf("GUARDIAN_API_KEY: %w", ErrMissingEnv)
	}

	switch cfg.MarketProvider {
	case "":
		cfg.MarketProvider = ProviderYahoo
	case ProviderYahoo:
	case ProviderFinnhub:
		if cfg.FinnhubAPIKey == "" {
			return nil, fmt.Errorf("FINNHUB_API_KEY: %w", ErrMissingEnv)
		}
	default:
		return nil, fmt.Errorf("unknown MARKET_PROVIDER %q", cfg.MarketProvider)
	}

	return cfg, nil
}
