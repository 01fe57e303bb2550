// Package commitment provides the opaque digest type binding the
// settlement engine to off-chain report data. The engine stores and
// compares commitments; it never interprets the committed payload.
package commitment

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Size is the length of a commitment digest in bytes (BLAKE2b-256).
const Size = 32

// Commitment is an opaque 32-byte digest over off-chain data.
type Commitment [Size]byte

// New computes the commitment digest over raw report bytes.
func New(data []byte) Commitment {
	return Commitment(blake2b.Sum256(data))
}

// FromBytes converts a 32-byte slice into a Commitment.
func FromBytes(raw []byte) (Commitment, error) {
	var c Commitment
	if len(raw) != Size {
		return c, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidDigest, Size, len(raw))
	}
	copy(c[:], raw)
	return c, nil
}

// FromHex parses a 64-character hex string into a Commitment.
func FromHex(s string) (Commitment, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Commitment{}, fmt.Errorf("%w: %w", ErrInvalidDigest, err)
	}
	return FromBytes(raw)
}

// Hex returns the digest as a lowercase hex string.
func (c Commitment) Hex() string {
	return hex.EncodeToString(c[:])
}

// IsZero reports whether the commitment is unset.
func (c Commitment) IsZero() bool {
	return c == Commitment{}
}

// Equal reports whether two commitments hold the same digest.
func (c Commitment) Equal(other Commitment) bool {
	return bytes.Equal(c[:], other[:])
}
