package config

import "errors"

var (
	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidRate indicates the platform fee rate is above 10000 bps.
	ErrInvalidRate = errors.New("config: platform rate must be at most 10000 bps")

	// ErrInvalidTreasury indicates the treasury holder id is malformed.
	ErrInvalidTreasury = errors.New("config: invalid treasury holder id")

	// ErrInvalidBatchSize indicates a non-positive entitlement batch size.
	ErrInvalidBatchSize = errors.New("config: batch size must be positive")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")
)
