// Package config loads pipeline configuration from an optional TOML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/visualscout/visualscout/internal/selector"
	"github.com/visualscout/visualscout/internal/similarity"
)

const (
	DefaultPolicy         = "smart"
	DefaultProfile        = "default"
	DefaultTileSize       = 3
	DefaultSampleInterval = 2.0
	DefaultWorkers        = 4
	DefaultOutputDir      = "output/output_grids"
	DefaultPort           = "8080"
	DefaultLogLevel       = "info"
	DefaultOpenAIModel    = "gpt-4o-mini"

	// EnvConfigFile points at an optional TOML config file.
	EnvConfigFile = "VISUALSCOUT_CONFIG"
)

type Config struct {
	Policy         string  `toml:"policy"`
	Profile        string  `toml:"profile"`
	TileSize       int     `toml:"tile_size"`
	SampleInterval float64 `toml:"sample_interval"`
	Workers        int     `toml:"workers"`
	OutputDir      string  `toml:"output_dir"`
	Port           string  `toml:"port"`
	LogLevel       string  `toml:"log_level"`
	OpenAIModel    string  `toml:"openai_model"`

	// Never read from the TOML file; secrets stay in the environment.
	OpenAIKey string `toml:"-"`
}

// Load builds the configuration from defaults, then the TOML file named by
// VISUALSCOUT_CONFIG (if set), then environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Policy:         DefaultPolicy,
		Profile:        DefaultProfile,
		TileSize:       DefaultTileSize,
		SampleInterval: DefaultSampleInterval,
		Workers:        DefaultWorkers,
		OutputDir:      DefaultOutputDir,
		Port:           DefaultPort,
		LogLevel:       DefaultLogLevel,
		OpenAIModel:    DefaultOpenAIModel,
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.Policy = getEnv("SAMPLING_POLICY", cfg.Policy)
	cfg.Profile = getEnv("SIMILARITY_PROFILE", cfg.Profile)
	cfg.OutputDir = getEnv("OUTPUT_DIR", cfg.OutputDir)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")

	var err error
	if cfg.TileSize, err = getEnvInt("GRID_SIZE", cfg.TileSize); err != nil {
		return nil, err
	}
	if cfg.Workers, err = getEnvInt("MAX_WORKERS", cfg.Workers); err != nil {
		return nil, err
	}
	if cfg.SampleInterval, err = getEnvFloat("SAMPLE_INTERVAL", cfg.SampleInterval); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the cross-field invariants the pipeline relies on.
func (c *Config) Validate() error {
	if _, err := selector.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if _, err := similarity.ParseProfile(c.Profile); err != nil {
		return err
	}
	if c.TileSize < 1 {
		return fmt.Errorf("grid size must be at least 1, got %d", c.TileSize)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("sample interval must be positive, got %v", c.SampleInterval)
	}
	if c.Workers < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", c.Workers)
	}
	return nil
}

// SelectorPolicy returns the validated policy value.
func (c *Config) SelectorPolicy() selector.Policy {
	p, _ := selector.ParsePolicy(c.Policy)
	return p
}

// SimilarityProfile returns the validated profile value.
func (c *Config) SimilarityProfile() similarity.Profile {
	p, _ := similarity.ParseProfile(c.Profile)
	return p
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
