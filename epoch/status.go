package epoch

// Status is the settlement state of an epoch. Transitions are strictly
// forward: Open -> Closed -> Settled, with Settled terminal.
type Status uint8

const (
	// StatusOpen means the settlement period is accruing revenue.
	StatusOpen Status = iota + 1
	// StatusClosed means the period ended and balances are snapshotted;
	// entitlements may be recorded.
	StatusClosed
	// StatusSettled means entitlements are frozen and claimable. Terminal.
	StatusSettled
)

// valid reports whether the status byte is one of the known states.
func (s Status) valid() bool {
	return s >= StatusOpen && s <= StatusSettled
}

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	case StatusSettled:
		return "settled"
	default:
		return "unknown"
	}
}
