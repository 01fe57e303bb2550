package entitlement

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sunyield-coop/libsunyield-go/commitment"
	"github.com/sunyield-coop/libsunyield-go/ledger"
)

const entrySize = ledger.HolderIDSize + 8 // holder(32) + amount(8)

// SerializePlan encodes a plan in canonical binary form: for each entry,
// the 32-byte holder id followed by the amount as a big-endian uint64,
// in ascending holder order. The encoding is the preimage of the
// entitlements commitment, so it must be byte-stable across runs.
func SerializePlan(p Plan) []byte {
	buf := make([]byte, entrySize*len(p))
	offset := 0
	for _, e := range p {
		copy(buf[offset:offset+ledger.HolderIDSize], e.Holder[:])
		offset += ledger.HolderIDSize
		binary.BigEndian.PutUint64(buf[offset:offset+8], e.Amount)
		offset += 8
	}
	return buf
}

// DeserializePlan decodes canonical plan data, rejecting truncated input
// and out-of-order or duplicate holders.
func DeserializePlan(data []byte) (Plan, error) {
	if len(data)%entrySize != 0 {
		return nil, fmt.Errorf("%w: length %d not a multiple of %d", ErrInvalidPlanData, len(data), entrySize)
	}

	plan := make(Plan, len(data)/entrySize)
	offset := 0
	for i := range plan {
		copy(plan[i].Holder[:], data[offset:offset+ledger.HolderIDSize])
		offset += ledger.HolderIDSize
		plan[i].Amount = binary.BigEndian.Uint64(data[offset : offset+8])
		offset += 8

		if i > 0 && bytes.Compare(plan[i-1].Holder[:], plan[i].Holder[:]) >= 0 {
			return nil, fmt.Errorf("%w: entry %d out of canonical order", ErrInvalidPlanData, i)
		}
	}
	return plan, nil
}

// Digest returns the commitment over the canonical plan encoding. Two
// plans with identical holders and amounts always share a digest.
func (p Plan) Digest() commitment.Commitment {
	return commitment.New(SerializePlan(p))
}
