package epoch

import "errors"

var (
	// ErrEpochExists indicates the epoch id is already known.
	ErrEpochExists = errors.New("epoch: epoch already exists")

	// ErrEpochNotFound indicates the epoch id is unknown.
	ErrEpochNotFound = errors.New("epoch: epoch not found")

	// ErrWrongStatus indicates the epoch is not in the status the requested
	// transition requires. No state is changed.
	ErrWrongStatus = errors.New("epoch: wrong epoch status")

	// ErrInvalidPeriod indicates the settlement period does not end after it
	// starts.
	ErrInvalidPeriod = errors.New("epoch: period end must be after period start")

	// ErrZeroDeposit indicates a zero-amount revenue deposit.
	ErrZeroDeposit = errors.New("epoch: zero deposit")

	// ErrAlreadyDeposited indicates revenue was already deposited for the
	// epoch. A second deposit is rejected rather than summed.
	ErrAlreadyDeposited = errors.New("epoch: revenue already deposited")

	// ErrZeroCommitment indicates an all-zero commitment digest.
	ErrZeroCommitment = errors.New("epoch: zero commitment digest")

	// ErrNoDeposit indicates settlement was attempted before any revenue
	// deposit.
	ErrNoDeposit = errors.New("epoch: no revenue deposited")

	// ErrDuplicateEntitlement indicates an entitlement for this holder was
	// already recorded. Overwrites are an operator error, never silent.
	ErrDuplicateEntitlement = errors.New("epoch: entitlement already set for holder")

	// ErrEntitlementOverflow indicates the running entitlement sum would
	// overflow.
	ErrEntitlementOverflow = errors.New("epoch: entitlement sum overflow")

	// ErrConservationViolation indicates the entitlement sum does not equal
	// the deposited revenue exactly. The epoch stays closed and unchanged.
	ErrConservationViolation = errors.New("epoch: entitlement sum does not match deposited revenue")

	// ErrNoEntitlement indicates the holder has no entitlement for the epoch.
	ErrNoEntitlement = errors.New("epoch: no entitlement found for holder")

	// ErrAlreadyClaimed indicates the holder already claimed this epoch.
	// Callers retrying after a lost confirmation should treat this as a
	// successful terminal state.
	ErrAlreadyClaimed = errors.New("epoch: entitlement already claimed")

	// ErrSnapshotFailed indicates the equity ledger refused the close-time
	// snapshot.
	ErrSnapshotFailed = errors.New("epoch: ledger snapshot failed")

	// ErrPayoutFailed indicates the delegated fund movement failed; the
	// claim bookkeeping is rolled back with it.
	ErrPayoutFailed = errors.New("epoch: payout failed")

	// ErrInvalidEpochData indicates a stored epoch record is malformed.
	ErrInvalidEpochData = errors.New("epoch: invalid epoch record")
)
