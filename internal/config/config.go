// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir       string // Base directory for the sqlite databases (always absolute)
	PolicyFile    string // Path to the analysis policy TOML file (may not exist)
	MarketDataURL string // Base URL of the market data gateway
	RiskFreeRate  float64
	LogLevel      string
	Port          int
	DevMode       bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("FOLIO_DATA_DIR", "data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	port, err := strconv.Atoi(getEnv("FOLIO_PORT", "8090"))
	if err != nil {
		return nil, fmt.Errorf("invalid FOLIO_PORT: %w", err)
	}

	riskFree, err := strconv.ParseFloat(getEnv("FOLIO_RISK_FREE_RATE", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FOLIO_RISK_FREE_RATE: %w", err)
	}

	return &Config{
		DataDir:       absDataDir,
		PolicyFile:    getEnv("FOLIO_POLICY_FILE", filepath.Join(absDataDir, "policy.toml")),
		MarketDataURL: getEnv("FOLIO_MARKET_DATA_URL", "https://query1.finance.yahoo.com"),
		RiskFreeRate:  riskFree,
		LogLevel:      getEnv("FOLIO_LOG_LEVEL", "info"),
		Port:          port,
		DevMode:       getEnv("FOLIO_DEV_MODE", "false") == "true",
	}, nil
}

// getEnv retrieves an environment variable value, returning a fallback if
// the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
