// Package config holds operator-side settings for the revenue distribution
// engine: storage locations, the platform fee rate, the treasury holder,
// and the entitlement batch size.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sunyield-coop/libsunyield-go/entitlement"
)

// Config is the engine configuration.
type Config struct {
	// DataDir is the root directory for engine state.
	DataDir string `yaml:"data_dir"`

	// PlatformRateBps is the platform fee rate in basis points (0-10000).
	PlatformRateBps uint32 `yaml:"platform_rate_bps"`

	// TreasuryHolder is the hex-encoded holder id receiving the platform
	// fee and any floor-division remainder.
	TreasuryHolder string `yaml:"treasury_holder"`

	// BatchSize caps how many entitlements one external call carries.
	BatchSize int `yaml:"batch_size"`

	// ReportArchiveDir stores raw accrual reports by commitment digest.
	// Defaults to a subdirectory of DataDir when empty.
	ReportArchiveDir string `yaml:"report_archive_dir"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:         defaultDataDir(),
		PlatformRateBps: 1000,
		BatchSize:       entitlement.DefaultBatchSize,
	}
}

// LoadConfig reads a YAML configuration file over the defaults. A missing
// file is an error; use DefaultConfig directly when no file exists.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// EngineDBPath returns the bbolt database path under the data directory.
func (c Config) EngineDBPath() string {
	return filepath.Join(c.DataDir, "epochs.db")
}

// ArchiveDir returns the report archive directory, defaulting under DataDir.
func (c Config) ArchiveDir() string {
	if c.ReportArchiveDir != "" {
		return c.ReportArchiveDir
	}
	return filepath.Join(c.DataDir, "reports")
}

// defaultDataDir returns ~/.sunyield, falling back to a relative directory
// when the home directory cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sunyield"
	}
	return filepath.Join(home, ".sunyield")
}
