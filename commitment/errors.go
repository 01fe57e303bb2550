package commitment

import "errors"

var (
	// ErrInvalidDigest indicates a digest of the wrong length or encoding.
	ErrInvalidDigest = errors.New("commitment: invalid digest")
)
