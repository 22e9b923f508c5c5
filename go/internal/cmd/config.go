package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexmeckes/draftagent/go/internal/analysis"
	"github.com/alexmeckes/draftagent/go/internal/draft/syncer"
	"github.com/alexmeckes/draftagent/go/internal/draftsource"
	"github.com/alexmeckes/draftagent/go/internal/recommendation"
)

type Config struct {
	Sync struct {
		PollInterval time.Duration `yaml:"poll_interval"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"sync"`
	Catalog struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"catalog"`
	Cache struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Scorer struct {
		Timeout         time.Duration `yaml:"timeout"`
		AnalysisTimeout time.Duration `yaml:"analysis_timeout"`
	} `yaml:"scorer"`
	Analysis analysis.Config `yaml:"analysis"`
}

func defaultConfig() *Config {
	cfg := &Config{Analysis: analysis.DefaultConfig()}
	cfg.Sync.PollInterval = syncer.DefaultPollInterval
	cfg.Sync.FetchTimeout = syncer.DefaultFetchTimeout
	cfg.Catalog.TTL = draftsource.DefaultCatalogTTL
	cfg.Cache.TTL = recommendation.DefaultTTL
	cfg.Scorer.Timeout = 60 * time.Second
	cfg.Scorer.AnalysisTimeout = recommendation.DefaultAnalysisTimeout
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// loadConfig overlays the YAML file at path on the defaults. A missing file
// is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.Sync.PollInterval = getEnvAsDuration("SYNC_POLL_INTERVAL", config.Sync.PollInterval)
	config.Analysis.AgentModel.MaxTokens = getEnvAsInt("AGENT_MAX_TOKENS", config.Analysis.AgentModel.MaxTokens)
	return config, nil
}
