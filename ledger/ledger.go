// Package ledger maintains equity unit balances for a fixed total supply
// and produces immutable point-in-time snapshots keyed by settlement epoch.
package ledger

import (
	"encoding/hex"
	"fmt"
	"math"
	"sync"
)

// HolderIDSize is the required length of a holder identifier in bytes.
const HolderIDSize = 32

// HolderID identifies an equity holder.
type HolderID [HolderIDSize]byte

// HolderIDFromHex parses a 64-character hex string into a HolderID.
func HolderIDFromHex(s string) (HolderID, error) {
	var id HolderID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("%w: %w", ErrInvalidHolderID, err)
	}
	if len(raw) != HolderIDSize {
		return id, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHolderID, HolderIDSize, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// Hex returns the holder id as a lowercase hex string.
func (id HolderID) Hex() string {
	return hex.EncodeToString(id[:])
}

// SnapshotID identifies an immutable balance snapshot. Ids are assigned
// sequentially starting at 1; 0 is never a valid snapshot.
type SnapshotID uint64

// checkpoint records a holder's balance as it stood when the given
// snapshot was taken. Written lazily on the first mutation after the
// snapshot exists.
type checkpoint struct {
	snapshot SnapshotID
	balance  uint64
}

// Ledger tracks live holder balances and their frozen per-snapshot views.
// All methods are safe for concurrent use; each runs as a single critical
// section over the full read-check-write sequence.
type Ledger struct {
	mu          sync.Mutex
	balances    map[HolderID]uint64
	totalSupply uint64
	locked      bool // set on first transfer or snapshot; issuance closed

	lastSnapshot SnapshotID
	byEpoch      map[uint64]SnapshotID
	checkpoints  map[HolderID][]checkpoint
}

// NewLedger creates an empty ledger with issuance open.
func NewLedger() *Ledger {
	return &Ledger{
		balances:    make(map[HolderID]uint64),
		byEpoch:     make(map[uint64]SnapshotID),
		checkpoints: make(map[HolderID][]checkpoint),
	}
}

// Issue credits newly issued units to a holder. Only permitted before the
// first transfer or snapshot; after that the total supply is immutable.
func (l *Ledger) Issue(holder HolderID, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locked {
		return ErrIssuanceClosed
	}
	if amount > math.MaxUint64-l.totalSupply {
		return fmt.Errorf("%w: issuing %d over supply %d", ErrSupplyOverflow, amount, l.totalSupply)
	}

	l.balances[holder] += amount
	l.totalSupply += amount
	return nil
}

// Transfer moves units between holders. The first transfer permanently
// closes issuance. Balances absent from the ledger read as zero.
func (l *Ledger) Transfer(from, to HolderID, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, l.balances[from], amount)
	}

	l.locked = true
	l.preserve(from)
	l.preserve(to)

	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

// Balance returns the live balance of a holder; unknown holders read as zero.
func (l *Ledger) Balance(holder HolderID) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[holder]
}

// TotalSupply returns the fixed total supply.
func (l *Ledger) TotalSupply() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalSupply
}

// preserve writes the holder's current balance into the latest snapshot
// if no checkpoint for that snapshot exists yet. Must be called with the
// ledger mutex held, before any mutation of the holder's balance.
func (l *Ledger) preserve(holder HolderID) {
	if l.lastSnapshot == 0 {
		return
	}
	cps := l.checkpoints[holder]
	if len(cps) > 0 && cps[len(cps)-1].snapshot >= l.lastSnapshot {
		return
	}
	l.checkpoints[holder] = append(cps, checkpoint{
		snapshot: l.lastSnapshot,
		balance:  l.balances[holder],
	})
}
