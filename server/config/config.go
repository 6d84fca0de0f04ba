// Package config loads the pawscan server config file
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cyclopcam/pawscan/server/scan"
)

type Export struct {
	Path      string `json:"path"`      // Local directory for exported reports
	GCSBucket string `json:"gcsBucket"` // Export to this Google Cloud Storage bucket instead of Path
	Timeline  bool   `json:"timeline"`  // Also export a timeline PNG per session
}

type Config struct {
	Listen   string      `json:"listen"`   // HTTP listen address, eg :8080
	Database string      `json:"database"` // sqlite file of finished sessions
	Export   Export      `json:"export"`   // Export is disabled when neither Path nor GCSBucket is set
	RateHz   int         `json:"rateHz"`   // Maximum frame submissions per second per IP
	Scan     scan.Config `json:"scan"`     // Pipeline tunables
}

func DefaultConfig() *Config {
	return &Config{
		Listen:   ":8080",
		Database: "pawscan.sqlite",
		Export: Export{
			Timeline: true,
		},
		RateHz: 120,
		Scan:   scan.DefaultConfig(),
	}
}

// LoadConfig reads a JSON config file over the defaults, so that a file only needs
// the settings it changes. An empty filename returns the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if filename == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Error loading %v: %w", filename, err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("Error loading as JSON %v: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid config %v: %w", filename, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is empty")
	}
	if c.RateHz <= 0 {
		return fmt.Errorf("rateHz must be positive")
	}
	if c.Scan.PersistFrames < 0 {
		return fmt.Errorf("scan.persistFrames may not be negative")
	}
	if c.Scan.MinDogConfidence < 0 || c.Scan.MinDogConfidence > 1 {
		return fmt.Errorf("scan.minDogConfidence must be between 0 and 1")
	}
	return nil
}
