package chainweb

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// ErrMalformedTarget means a header's target field was not exactly
// TargetLen bytes. This is a caller-misuse error: the submission is
// rejected synchronously and nothing is mutated.
var ErrMalformedTarget = errors.New("chainweb: malformed target field")

// TargetLen is the fixed serialized length of a target: four
// little-endian 64-bit words (spec.md §3).
const TargetLen = 32

// Target is a 256-bit upper bound a digest must not exceed. It is
// stored exactly as it appears on the wire: four little-endian 64-bit
// words, least significant first.
type Target [TargetLen]byte

// asUint256 decodes t's four little-endian limbs into a uint256.Int.
// The uint256 library represents Int as [4]uint64 with element 0 the
// least-significant word, which is the same limb order the spec
// mandates for both Target and a digest, so the decode is a direct
// field-by-field read with no reordering.
func (t *Target) asUint256() *uint256.Int {
	var z uint256.Int
	for i := 0; i < 4; i++ {
		z[i] = binary.LittleEndian.Uint64(t[i*8 : i*8+8])
	}
	return &z
}

func wordsToUint256(b *[32]byte) *uint256.Int {
	var z uint256.Int
	for i := 0; i < 4; i++ {
		z[i] = binary.LittleEndian.Uint64(b[i*8 : i*8+8])
	}
	return &z
}

// Satisfies reports whether digest, interpreted as a 256-bit
// little-endian unsigned integer, is less than or equal to t -- the
// inclusive bound of spec.md §4.1's target comparison.
func (t *Target) Satisfies(digest *[32]byte) bool {
	return wordsToUint256(digest).Cmp(t.asUint256()) <= 0
}

// ParseTarget copies a 32-byte target field out of a header buffer.
// It fails if b is not exactly TargetLen bytes, which is the
// caller-misuse condition of spec.md §7 ("malformed target field").
func ParseTarget(b []byte) (Target, error) {
	var t Target
	if len(b) != TargetLen {
		return t, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedTarget, len(b), TargetLen)
	}
	copy(t[:], b)
	return t, nil
}
