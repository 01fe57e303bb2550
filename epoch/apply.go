package epoch

import (
	"bytes"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/sunyield-coop/libsunyield-go/entitlement"
	"github.com/sunyield-coop/libsunyield-go/ledger"
)

// ApplyEntitlements replays a computed distribution plan into the engine,
// one SetEntitlement call per entry. The batch is not atomic: an error
// leaves the epoch closed with every earlier entry applied, and the return
// value reports how many landed so the operator can resume from there.
// Entries already present with the same amount are skipped, making a
// resumed replay safe; a duplicate with a different amount is an operator
// error and stops the replay.
func (e *Engine) ApplyEntitlements(epochID uint64, plan entitlement.Plan) (applied int, err error) {
	for _, entry := range plan {
		if err := e.SetEntitlement(epochID, entry.Holder, entry.Amount); err != nil {
			if errors.Is(err, ErrDuplicateEntitlement) {
				stored, lookupErr := e.Entitlement(epochID, entry.Holder)
				if lookupErr == nil && stored == entry.Amount {
					continue
				}
			}
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// Entitlement returns the recorded entitlement amount for one holder.
func (e *Engine) Entitlement(epochID uint64, holder ledger.HolderID) (uint64, error) {
	var amount uint64
	err := e.db.View(func(tx *bbolt.Tx) error {
		if _, err := getEpoch(tx, epochID); err != nil {
			return err
		}
		data := tx.Bucket(bucketEntitlements).Get(holderKey(epochID, holder))
		if data == nil {
			return fmt.Errorf("%w: epoch %d holder %s", ErrNoEntitlement, epochID, holder.Hex())
		}
		amount = decodeAmount(data)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// Entitlements returns the recorded entitlement set for an epoch in
// canonical holder order, as a plan suitable for digest verification.
func (e *Engine) Entitlements(epochID uint64) (entitlement.Plan, error) {
	return e.scanAmounts(epochID, bucketEntitlements)
}

// Claims returns the recorded claims for an epoch in canonical holder order.
func (e *Engine) Claims(epochID uint64) (entitlement.Plan, error) {
	return e.scanAmounts(epochID, bucketClaims)
}

// scanAmounts walks one holder-keyed bucket over an epoch's key prefix.
// The store key order is the canonical order, so no sorting is needed.
func (e *Engine) scanAmounts(epochID uint64, bucket []byte) (entitlement.Plan, error) {
	var plan entitlement.Plan
	err := e.db.View(func(tx *bbolt.Tx) error {
		if _, err := getEpoch(tx, epochID); err != nil {
			return err
		}
		prefix := epochKey(epochID)
		c := tx.Bucket(bucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			plan = append(plan, entitlement.Entry{
				Holder: holderFromKey(k),
				Amount: decodeAmount(v),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}
