// Package epoch owns the settlement-period state machine: revenue deposits,
// entitlement bookkeeping, the conservation check, and pull claims. State is
// persisted in bbolt under canonically encoded keys.
package epoch

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/sunyield-coop/libsunyield-go/commitment"
	"github.com/sunyield-coop/libsunyield-go/ledger"
)

// Snapshotter is the equity ledger surface the engine consumes. After an
// epoch is closed the engine never reads live balances; entitlements are
// computed outside and replayed in.
type Snapshotter interface {
	// Snapshot freezes balances for the epoch and returns the snapshot id.
	Snapshot(epochID uint64) (ledger.SnapshotID, error)

	// SnapshotForEpoch returns an epoch's existing snapshot id, if any.
	SnapshotForEpoch(epochID uint64) (ledger.SnapshotID, error)
}

// Payer moves claimed funds to a holder. The execution environment supplies
// the implementation; the engine invokes it inside the claim transaction so
// payment and bookkeeping commit or roll back together.
type Payer interface {
	Pay(holder ledger.HolderID, amount uint64) error
}

// Engine is the revenue settlement and claim engine for one asset. Every
// public operation runs as a single critical section over its full
// read-check-write sequence; no operation observes another half-applied.
type Engine struct {
	mu     sync.Mutex
	db     *bbolt.DB
	ledger Snapshotter
	payer  Payer // optional; nil means bookkeeping only
}

// Open opens or creates the engine database at dbPath. The parent
// directory is created if it does not exist.
func Open(dbPath string, snapshotter Snapshotter) (*Engine, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("epoch: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("epoch: open bolt db: %w", err)
	}
	eng, err := NewEngine(db, snapshotter)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return eng, nil
}

// NewEngine wraps an already-open bbolt database, creating the engine
// buckets if needed.
func NewEngine(db *bbolt.DB, snapshotter Snapshotter) (*Engine, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketEpochs, bucketEntitlements, bucketClaims} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("epoch: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Engine{db: db, ledger: snapshotter}, nil
}

// SetPayer installs the fund movement hook invoked on successful claims.
func (e *Engine) SetPayer(p Payer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.payer = p
}

// Close closes the underlying database.
func (e *Engine) Close() error { return e.db.Close() }

// CreateEpoch opens a new settlement period. Period bounds are metadata
// only: the engine stores them but never enforces staleness against them.
func (e *Engine) CreateEpoch(epochID uint64, periodStart, periodEnd int64) error {
	if periodEnd <= periodStart {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidPeriod, periodStart, periodEnd)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEpochs)
		key := epochKey(epochID)
		if b.Get(key) != nil {
			return fmt.Errorf("%w: id %d", ErrEpochExists, epochID)
		}
		ep := &Epoch{
			ID:          epochID,
			Status:      StatusOpen,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
		}
		return b.Put(key, serializeEpoch(ep))
	})
}

// CloseEpoch ends the accrual period: it snapshots the equity ledger and
// records the snapshot id on the epoch. Entitlement computation for this
// epoch reads only the frozen snapshot from here on, so transfers occurring
// after close cannot affect the distribution.
func (e *Engine) CloseEpoch(epochID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.db.Update(func(tx *bbolt.Tx) error {
		ep, err := getEpoch(tx, epochID)
		if err != nil {
			return err
		}
		if ep.Status != StatusOpen {
			return fmt.Errorf("%w: close requires open, epoch %d is %s", ErrWrongStatus, epochID, ep.Status)
		}

		snapID, err := e.ledger.Snapshot(epochID)
		if err != nil {
			// A snapshot from an interrupted earlier close attempt is reused
			// rather than surfaced as an error.
			if existing, lookupErr := e.ledger.SnapshotForEpoch(epochID); lookupErr == nil {
				snapID = existing
			} else {
				return fmt.Errorf("%w: %w", ErrSnapshotFailed, err)
			}
		}

		ep.Status = StatusClosed
		ep.SnapshotID = snapID
		return putEpoch(tx, ep)
	})
}

// AnchorAccrualReport stores the digest committing the epoch to its
// off-chain accrual report. The payload is never parsed or validated;
// re-anchoring before settlement overwrites the previous digest.
func (e *Engine) AnchorAccrualReport(epochID uint64, digest commitment.Commitment) error {
	if digest.IsZero() {
		return ErrZeroCommitment
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.db.Update(func(tx *bbolt.Tx) error {
		ep, err := getEpoch(tx, epochID)
		if err != nil {
			return err
		}
		if ep.Status == StatusSettled {
			return fmt.Errorf("%w: epoch %d is settled", ErrWrongStatus, epochID)
		}
		ep.AccrualCommitment = digest
		return putEpoch(tx, ep)
	})
}

// AnchorEntitlements stores the digest over the full entitlement set the
// operator intends to apply, for later audit. It does not itself write
// entitlements. Requires a closed epoch, since the set derives from the
// close-time snapshot.
func (e *Engine) AnchorEntitlements(epochID uint64, digest commitment.Commitment) error {
	if digest.IsZero() {
		return ErrZeroCommitment
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.db.Update(func(tx *bbolt.Tx) error {
		ep, err := getEpoch(tx, epochID)
		if err != nil {
			return err
		}
		if ep.Status != StatusClosed {
			return fmt.Errorf("%w: anchor requires closed, epoch %d is %s", ErrWrongStatus, epochID, ep.Status)
		}
		ep.EntitlementsCommitment = digest
		return putEpoch(tx, ep)
	})
}

// DepositNetRevenue records the net revenue for a closed epoch. Exactly one
// deposit is accepted: a second attempt is rejected rather than summed, so
// a double-funded epoch can never happen silently.
func (e *Engine) DepositNetRevenue(epochID uint64, amount uint64) error {
	if amount == 0 {
		return ErrZeroDeposit
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.db.Update(func(tx *bbolt.Tx) error {
		ep, err := getEpoch(tx, epochID)
		if err != nil {
			return err
		}
		if ep.Status != StatusClosed {
			return fmt.Errorf("%w: deposit requires closed, epoch %d is %s", ErrWrongStatus, epochID, ep.Status)
		}
		if ep.NetDeposited != 0 {
			return fmt.Errorf("%w: epoch %d holds %d", ErrAlreadyDeposited, epochID, ep.NetDeposited)
		}
		ep.NetDeposited = amount
		return putEpoch(tx, ep)
	})
}

// SetEntitlement records one holder's entitlement for a closed epoch.
// Overwrites are rejected: a duplicate signals an operator mistake that
// silent replacement could hide. Designed to be called once per holder,
// across as many batches as the surrounding transport requires; the engine
// tolerates being interrupted between calls.
func (e *Engine) SetEntitlement(epochID uint64, holder ledger.HolderID, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.db.Update(func(tx *bbolt.Tx) error {
		ep, err := getEpoch(tx, epochID)
		if err != nil {
			return err
		}
		if ep.Status != StatusClosed {
			return fmt.Errorf("%w: entitlements require closed, epoch %d is %s", ErrWrongStatus, epochID, ep.Status)
		}

		b := tx.Bucket(bucketEntitlements)
		key := holderKey(epochID, holder)
		if b.Get(key) != nil {
			return fmt.Errorf("%w: epoch %d holder %s", ErrDuplicateEntitlement, epochID, holder.Hex())
		}
		if amount > math.MaxUint64-ep.SumSet {
			return fmt.Errorf("%w: sum %d + %d", ErrEntitlementOverflow, ep.SumSet, amount)
		}

		if err := b.Put(key, encodeAmount(amount)); err != nil {
			return fmt.Errorf("epoch: put entitlement: %w", err)
		}
		ep.SumSet += amount
		return putEpoch(tx, ep)
	})
}

// SettleEpoch freezes the entitlement set and opens claiming. It succeeds
// only when the recorded entitlements sum to the deposited revenue exactly;
// on any violation the epoch stays closed and nothing is mutated, so the
// operator can correct the set and retry. Settled is terminal.
func (e *Engine) SettleEpoch(epochID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.db.Update(func(tx *bbolt.Tx) error {
		ep, err := getEpoch(tx, epochID)
		if err != nil {
			return err
		}
		if ep.Status != StatusClosed {
			return fmt.Errorf("%w: settle requires closed, epoch %d is %s", ErrWrongStatus, epochID, ep.Status)
		}
		if ep.NetDeposited == 0 {
			return fmt.Errorf("%w: epoch %d", ErrNoDeposit, epochID)
		}
		if ep.SumSet != ep.NetDeposited {
			return fmt.Errorf("%w: set %d, deposited %d", ErrConservationViolation, ep.SumSet, ep.NetDeposited)
		}

		ep.Status = StatusSettled
		return putEpoch(tx, ep)
	})
}

// Claim pays out the caller's entitlement for a settled epoch, exactly
// once. The claim record transitions from absent to the full entitlement in
// the same transaction that moves the funds; a retry after a successful
// claim returns ErrAlreadyClaimed with no further effect.
func (e *Engine) Claim(epochID uint64, holder ledger.HolderID) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var paid uint64
	err := e.db.Update(func(tx *bbolt.Tx) error {
		ep, err := getEpoch(tx, epochID)
		if err != nil {
			return err
		}
		if ep.Status != StatusSettled {
			return fmt.Errorf("%w: claim requires settled, epoch %d is %s", ErrWrongStatus, epochID, ep.Status)
		}

		key := holderKey(epochID, holder)
		entData := tx.Bucket(bucketEntitlements).Get(key)
		if entData == nil {
			return fmt.Errorf("%w: epoch %d holder %s", ErrNoEntitlement, epochID, holder.Hex())
		}
		amount := decodeAmount(entData)
		if amount == 0 {
			return fmt.Errorf("%w: epoch %d holder %s", ErrNoEntitlement, epochID, holder.Hex())
		}

		claims := tx.Bucket(bucketClaims)
		if claims.Get(key) != nil {
			return fmt.Errorf("%w: epoch %d holder %s", ErrAlreadyClaimed, epochID, holder.Hex())
		}

		if err := claims.Put(key, encodeAmount(amount)); err != nil {
			return fmt.Errorf("epoch: put claim: %w", err)
		}
		ep.SumClaimed += amount
		if err := putEpoch(tx, ep); err != nil {
			return err
		}

		// Fund movement happens inside the transaction: if the payer fails,
		// the claim record rolls back with it.
		if e.payer != nil {
			if err := e.payer.Pay(holder, amount); err != nil {
				return fmt.Errorf("%w: %w", ErrPayoutFailed, err)
			}
		}

		paid = amount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return paid, nil
}

// Claimable returns the holder's unclaimed entitlement for an epoch: the
// entitlement minus the claim record, zero when either is absent or the
// claim is complete.
func (e *Engine) Claimable(epochID uint64, holder ledger.HolderID) (uint64, error) {
	var claimable uint64
	err := e.db.View(func(tx *bbolt.Tx) error {
		if _, err := getEpoch(tx, epochID); err != nil {
			return err
		}
		key := holderKey(epochID, holder)
		entData := tx.Bucket(bucketEntitlements).Get(key)
		if entData == nil {
			return nil
		}
		claimable = decodeAmount(entData)
		if claimData := tx.Bucket(bucketClaims).Get(key); claimData != nil {
			claimable -= decodeAmount(claimData)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return claimable, nil
}

// GetEpoch retrieves an epoch record.
func (e *Engine) GetEpoch(epochID uint64) (*Epoch, error) {
	var ep *Epoch
	err := e.db.View(func(tx *bbolt.Tx) error {
		var err error
		ep, err = getEpoch(tx, epochID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ep, nil
}

// ListEpochs returns all epoch records in ascending id order.
func (e *Engine) ListEpochs() ([]*Epoch, error) {
	var epochs []*Epoch
	err := e.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEpochs).ForEach(func(k, v []byte) error {
			ep, err := deserializeEpoch(binary.BigEndian.Uint64(k), v)
			if err != nil {
				return err
			}
			epochs = append(epochs, ep)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return epochs, nil
}

// getEpoch loads and decodes an epoch inside a transaction.
func getEpoch(tx *bbolt.Tx, epochID uint64) (*Epoch, error) {
	data := tx.Bucket(bucketEpochs).Get(epochKey(epochID))
	if data == nil {
		return nil, fmt.Errorf("%w: id %d", ErrEpochNotFound, epochID)
	}
	return deserializeEpoch(epochID, data)
}

// putEpoch encodes and stores an epoch inside a transaction.
func putEpoch(tx *bbolt.Tx, ep *Epoch) error {
	if err := tx.Bucket(bucketEpochs).Put(epochKey(ep.ID), serializeEpoch(ep)); err != nil {
		return fmt.Errorf("epoch: put epoch %d: %w", ep.ID, err)
	}
	return nil
}

// encodeAmount encodes an amount as an 8-byte big-endian value.
func encodeAmount(amount uint64) []byte {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, amount)
	return v
}

// decodeAmount decodes an 8-byte big-endian amount.
func decodeAmount(v []byte) uint64 {
	return binary.BigEndian.Uint64(v)
}
