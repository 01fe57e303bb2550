package config

import (
	"fmt"

	"github.com/sunyield-coop/libsunyield-go/entitlement"
	"github.com/sunyield-coop/libsunyield-go/ledger"
)

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.PlatformRateBps > entitlement.FeeDenominator {
		return fmt.Errorf("%w: got %d", ErrInvalidRate, cfg.PlatformRateBps)
	}

	if _, err := ledger.HolderIDFromHex(cfg.TreasuryHolder); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTreasury, err)
	}

	if cfg.BatchSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBatchSize, cfg.BatchSize)
	}

	return nil
}

// Treasury parses the configured treasury holder id. Call ValidateConfig
// first; Treasury panics on a malformed id.
func (c Config) Treasury() ledger.HolderID {
	id, err := ledger.HolderIDFromHex(c.TreasuryHolder)
	if err != nil {
		panic(fmt.Sprintf("config: treasury holder: %v", err))
	}
	return id
}
