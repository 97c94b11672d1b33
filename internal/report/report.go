// Package report deals with vulnerability report pointers stored in
// submissions.
//
// Contract accepts any non-empty string as a report hash. Off-chain tooling
// additionally checks pointers looking like IPFS CIDv0 ("Qm...") to be valid
// base58-encoded sha2-256 multihashes, so that a typo doesn't end up in the
// ledger forever.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

const (
	// sha2-256 multihash code and digest length.
	mhSHA256    = 0x12
	mhSHA256Len = 0x20

	cidV0Prefix = "Qm"
	cidV0Len    = 46
)

var (
	// ErrEmpty is returned for empty report pointers.
	ErrEmpty = errors.New("empty report hash")

	// ErrInvalidCID is returned for malformed CIDv0 pointers.
	ErrInvalidCID = errors.New("invalid CIDv0")
)

// FromDigest returns CIDv0 pointer for the given sha2-256 digest of the
// report contents.
func FromDigest(digest [32]byte) string {
	mh := make([]byte, 0, 2+len(digest))
	mh = append(mh, mhSHA256, mhSHA256Len)
	mh = append(mh, digest[:]...)

	return base58.Encode(mh)
}

// Validate checks report pointer before it is submitted.
func Validate(s string) error {
	if s == "" {
		return ErrEmpty
	}

	if !strings.HasPrefix(s, cidV0Prefix) {
		return nil
	}

	if len(s) != cidV0Len {
		return fmt.Errorf("%w: length %d", ErrInvalidCID, len(s))
	}

	mh, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCID, err)
	}

	if len(mh) != 2+mhSHA256Len || mh[0] != mhSHA256 || mh[1] != mhSHA256Len {
		return fmt.Errorf("%w: not a sha2-256 multihash", ErrInvalidCID)
	}

	return nil
}
