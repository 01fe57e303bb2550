package epoch

import (
	"encoding/binary"
	"fmt"

	"github.com/sunyield-coop/libsunyield-go/commitment"
	"github.com/sunyield-coop/libsunyield-go/ledger"
)

// Epoch is the persisted settlement-period record.
type Epoch struct {
	ID          uint64
	Status      Status
	PeriodStart int64 // unix seconds, stored but not enforced against
	PeriodEnd   int64
	SnapshotID  ledger.SnapshotID // set at close, 0 while open

	NetDeposited uint64 // net revenue for the period, set exactly once
	SumSet       uint64 // running total of recorded entitlements
	SumClaimed   uint64 // running total of paid claims

	AccrualCommitment      commitment.Commitment // digest over the off-chain accrual report
	EntitlementsCommitment commitment.Commitment // digest over the intended entitlement set
}

// Record layout offsets. The epoch id lives in the store key, not the record.
const (
	offStatus       = 0
	offPeriodStart  = 1
	offPeriodEnd    = 9
	offSnapshot     = 17
	offNetDeposited = 25
	offSumSet       = 33
	offSumClaimed   = 41
	offAccrual      = 49
	offEntitlements = offAccrual + commitment.Size

	epochRecordSize = offEntitlements + commitment.Size // 113
)

// serializeEpoch encodes an epoch record in fixed binary layout.
func serializeEpoch(ep *Epoch) []byte {
	buf := make([]byte, epochRecordSize)
	buf[offStatus] = byte(ep.Status)
	binary.BigEndian.PutUint64(buf[offPeriodStart:], uint64(ep.PeriodStart))
	binary.BigEndian.PutUint64(buf[offPeriodEnd:], uint64(ep.PeriodEnd))
	binary.BigEndian.PutUint64(buf[offSnapshot:], uint64(ep.SnapshotID))
	binary.BigEndian.PutUint64(buf[offNetDeposited:], ep.NetDeposited)
	binary.BigEndian.PutUint64(buf[offSumSet:], ep.SumSet)
	binary.BigEndian.PutUint64(buf[offSumClaimed:], ep.SumClaimed)
	copy(buf[offAccrual:offAccrual+commitment.Size], ep.AccrualCommitment[:])
	copy(buf[offEntitlements:offEntitlements+commitment.Size], ep.EntitlementsCommitment[:])
	return buf
}

// deserializeEpoch decodes a stored epoch record.
func deserializeEpoch(epochID uint64, data []byte) (*Epoch, error) {
	if len(data) != epochRecordSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidEpochData, epochRecordSize, len(data))
	}

	ep := &Epoch{
		ID:           epochID,
		Status:       Status(data[offStatus]),
		PeriodStart:  int64(binary.BigEndian.Uint64(data[offPeriodStart:])),
		PeriodEnd:    int64(binary.BigEndian.Uint64(data[offPeriodEnd:])),
		SnapshotID:   ledger.SnapshotID(binary.BigEndian.Uint64(data[offSnapshot:])),
		NetDeposited: binary.BigEndian.Uint64(data[offNetDeposited:]),
		SumSet:       binary.BigEndian.Uint64(data[offSumSet:]),
		SumClaimed:   binary.BigEndian.Uint64(data[offSumClaimed:]),
	}
	copy(ep.AccrualCommitment[:], data[offAccrual:offAccrual+commitment.Size])
	copy(ep.EntitlementsCommitment[:], data[offEntitlements:offEntitlements+commitment.Size])

	if !ep.Status.valid() {
		return nil, fmt.Errorf("%w: unknown status %d", ErrInvalidEpochData, data[offStatus])
	}
	return ep, nil
}
