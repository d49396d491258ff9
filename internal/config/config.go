package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultModelPath = "models/gtsrb_model.onnx"
	DefaultThreshold = 0.3
)

type Config struct {
	ModelPath           string
	ConfidenceThreshold float64
	Workers             int
}

// Load builds the configuration from defaults and environment overrides.
// A .env file is read when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ModelPath:           DefaultModelPath,
		ConfidenceThreshold: DefaultThreshold,
		Workers:             1,
	}

	if v := os.Getenv("GTSRB_MODEL_PATH"); v != "" {
		cfg.ModelPath = v
	}
	if v := os.Getenv("GTSRB_CONFIDENCE_THRESHOLD"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse GTSRB_CONFIDENCE_THRESHOLD %q: %w", v, err)
		}
		cfg.ConfidenceThreshold = t
	}
	if v := os.Getenv("GTSRB_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse GTSRB_WORKERS %q: %w", v, err)
		}
		cfg.Workers = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the numeric ranges.
func (c *Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold %v out of range [0,1]", c.ConfidenceThreshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
