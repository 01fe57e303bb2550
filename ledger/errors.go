package ledger

import "errors"

var (
	// ErrInsufficientBalance indicates the sender holds fewer units than requested.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrIssuanceClosed indicates issuance was attempted after the supply was fixed.
	ErrIssuanceClosed = errors.New("ledger: issuance closed, total supply is fixed")

	// ErrAlreadySnapshotted indicates a snapshot already exists for the epoch.
	ErrAlreadySnapshotted = errors.New("ledger: epoch already snapshotted")

	// ErrSnapshotNotFound indicates the snapshot id is unknown.
	ErrSnapshotNotFound = errors.New("ledger: snapshot not found")

	// ErrZeroAmount indicates a zero-unit issue or transfer.
	ErrZeroAmount = errors.New("ledger: zero amount")

	// ErrSupplyOverflow indicates issuance would overflow the total supply.
	ErrSupplyOverflow = errors.New("ledger: total supply overflow")

	// ErrInvalidHolderID indicates a malformed holder identifier.
	ErrInvalidHolderID = errors.New("ledger: invalid holder id")
)
