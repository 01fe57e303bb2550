package ledger

import (
	"fmt"
	"sort"
)

// Snapshot freezes the current balance view for an epoch and returns the
// new snapshot id. Exactly one snapshot may exist per epoch. Taking a
// snapshot permanently closes issuance.
//
// No balances are copied eagerly: a holder untouched since the snapshot
// reads its live balance as the snapshot value, and Transfer writes a
// checkpoint on the first mutation after the snapshot exists.
func (l *Ledger) Snapshot(epochID uint64) (SnapshotID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id, ok := l.byEpoch[epochID]; ok {
		return 0, fmt.Errorf("%w: epoch %d has snapshot %d", ErrAlreadySnapshotted, epochID, id)
	}

	l.locked = true
	l.lastSnapshot++
	l.byEpoch[epochID] = l.lastSnapshot
	return l.lastSnapshot, nil
}

// SnapshotForEpoch returns the snapshot id recorded for an epoch.
func (l *Ledger) SnapshotForEpoch(epochID uint64) (SnapshotID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, ok := l.byEpoch[epochID]
	if !ok {
		return 0, fmt.Errorf("%w: no snapshot for epoch %d", ErrSnapshotNotFound, epochID)
	}
	return id, nil
}

// BalanceAt returns a holder's balance as of the given snapshot.
func (l *Ledger) BalanceAt(snapshot SnapshotID, holder HolderID) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkSnapshot(snapshot); err != nil {
		return 0, err
	}
	return l.balanceAt(snapshot, holder), nil
}

// TotalSupplyAt returns the total supply as of the given snapshot. The
// supply is fixed at issuance, so this equals the live total supply for
// every valid snapshot.
func (l *Ledger) TotalSupplyAt(snapshot SnapshotID) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkSnapshot(snapshot); err != nil {
		return 0, err
	}
	return l.totalSupply, nil
}

// BalancesAt returns a detached copy of every nonzero holder balance as of
// the given snapshot. Intended for operator tooling preparing a
// distribution plan.
func (l *Ledger) BalancesAt(snapshot SnapshotID) (map[HolderID]uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkSnapshot(snapshot); err != nil {
		return nil, err
	}

	out := make(map[HolderID]uint64)
	for holder := range l.balances {
		if b := l.balanceAt(snapshot, holder); b > 0 {
			out[holder] = b
		}
	}
	// Holders who emptied their live balance after the snapshot exist only
	// in the checkpoint table.
	for holder := range l.checkpoints {
		if _, ok := out[holder]; ok {
			continue
		}
		if b := l.balanceAt(snapshot, holder); b > 0 {
			out[holder] = b
		}
	}
	return out, nil
}

// checkSnapshot validates a snapshot id. Must be called with the mutex held.
func (l *Ledger) checkSnapshot(snapshot SnapshotID) error {
	if snapshot == 0 || snapshot > l.lastSnapshot {
		return fmt.Errorf("%w: id %d", ErrSnapshotNotFound, snapshot)
	}
	return nil
}

// balanceAt resolves a holder's balance at a snapshot: the first checkpoint
// taken at or after the snapshot holds the value, otherwise the balance has
// not changed since and the live value applies. Must be called with the
// mutex held.
func (l *Ledger) balanceAt(snapshot SnapshotID, holder HolderID) uint64 {
	cps := l.checkpoints[holder]
	i := sort.Search(len(cps), func(i int) bool {
		return cps[i].snapshot >= snapshot
	})
	if i < len(cps) {
		return cps[i].balance
	}
	return l.balances[holder]
}
