package epoch

import (
	"encoding/binary"

	"github.com/sunyield-coop/libsunyield-go/ledger"
)

var (
	bucketEpochs       = []byte("epochs")
	bucketEntitlements = []byte("entitlements")
	bucketClaims       = []byte("claims")
)

// epochKey encodes an epoch id as an 8-byte big-endian key so epochs sort
// numerically in the store.
func epochKey(epochID uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, epochID)
	return k
}

// holderKey encodes the composite (epoch_id, holder_id) key: 8-byte
// big-endian epoch id followed by the fixed-length holder id. Fixed widths
// make the encoding collision-free and give prefix scans a deterministic
// per-epoch order for audit and export.
func holderKey(epochID uint64, holder ledger.HolderID) []byte {
	k := make([]byte, 8+ledger.HolderIDSize)
	binary.BigEndian.PutUint64(k[:8], epochID)
	copy(k[8:], holder[:])
	return k
}

// holderFromKey extracts the holder id from a composite key.
func holderFromKey(k []byte) ledger.HolderID {
	var holder ledger.HolderID
	copy(holder[:], k[8:])
	return holder
}
