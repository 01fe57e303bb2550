package entitlement

import "errors"

var (
	// ErrZeroRevenue indicates there is nothing to distribute.
	ErrZeroRevenue = errors.New("entitlement: zero revenue")

	// ErrZeroTotalSupply indicates distribution against a zero total supply.
	ErrZeroTotalSupply = errors.New("entitlement: zero total supply")

	// ErrRateOutOfRange indicates a platform fee rate above 10000 basis points.
	ErrRateOutOfRange = errors.New("entitlement: platform rate exceeds 10000 bps")

	// ErrBalancesExceedSupply indicates the balance set is inconsistent with
	// the stated total supply.
	ErrBalancesExceedSupply = errors.New("entitlement: balances exceed total supply")

	// ErrConservationViolation indicates the computed plan does not sum to
	// the revenue exactly. This is an internal postcondition check and
	// should never fire.
	ErrConservationViolation = errors.New("entitlement: plan conservation violated")

	// ErrInvalidPlanData indicates serialized plan data is malformed.
	ErrInvalidPlanData = errors.New("entitlement: invalid plan data")
)
