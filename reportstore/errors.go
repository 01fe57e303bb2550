package reportstore

import "errors"

var (
	// ErrInvalidBaseDir indicates an empty archive directory path.
	ErrInvalidBaseDir = errors.New("reportstore: invalid base directory")

	// ErrEmptyReport indicates an attempt to archive an empty report.
	ErrEmptyReport = errors.New("reportstore: empty report")

	// ErrNotFound indicates no report is archived under the digest.
	ErrNotFound = errors.New("reportstore: report not found")

	// ErrDigestMismatch indicates an archived file no longer matches its
	// digest.
	ErrDigestMismatch = errors.New("reportstore: archived report digest mismatch")

	// ErrIOFailure indicates an underlying filesystem error.
	ErrIOFailure = errors.New("reportstore: io failure")
)
