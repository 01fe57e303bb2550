package export

import "errors"

var (
	// ErrNoCommitment indicates the epoch has no anchored entitlements
	// commitment to verify against.
	ErrNoCommitment = errors.New("export: no entitlements commitment anchored")

	// ErrCommitmentMismatch indicates the stored entitlement set does not
	// reproduce the anchored commitment.
	ErrCommitmentMismatch = errors.New("export: entitlement set does not match anchored commitment")
)
