package pow

import (
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/kadena-io/chainweb-mining-worker/chainweb"
)

// Algorithm is the capability the kernel needs from a digest: reset,
// feed bytes, and finalize to exactly 32 bytes. Spec.md §9 calls this
// an "existential hash-algorithm capability" -- any version can supply
// its own implementation without the kernel's search loop changing.
type Algorithm interface {
	// Reset clears any state left over from a previous digest.
	Reset()
	// Write feeds more of the buffer being hashed. It never returns an
	// error for the algorithms this package registers, but satisfies
	// io.Writer so stdlib/x/crypto hash.Hash values can back it
	// directly.
	Write(p []byte) (int, error)
	// Sum32 finalizes the digest into a 32-byte array without
	// mutating any further state that Write would need reset first.
	Sum32() [32]byte
}

// hashAlgorithm adapts a stdlib/x/crypto hash.Hash that already
// produces a 32-byte sum into an Algorithm.
type hashAlgorithm struct {
	h hash.Hash
}

func (a *hashAlgorithm) Reset()                      { a.h.Reset() }
func (a *hashAlgorithm) Write(p []byte) (int, error) { return a.h.Write(p) }
func (a *hashAlgorithm) Sum32() [32]byte {
	var out [32]byte
	a.h.Sum(out[:0])
	return out
}

// NewSHA512_256 returns the default digest algorithm for every
// currently defined Chainweb version: SHA-512 truncated/derived to 256
// bits per FIPS 180-4's SHA-512/256 variant (spec.md §4.1).
func NewSHA512_256() Algorithm {
	return &hashAlgorithm{h: sha512.New512_256()}
}

// NewBlake2b256 returns a second, 32-byte-output digest algorithm. It
// demonstrates that the kernel is generic over "any 32-byte digest"
// (spec.md §9) but is intentionally left unmapped by AlgorithmFor: the
// spec names no version that should use it, and guessing would violate
// the Open Question decision recorded in SPEC_FULL.md §7.
func NewBlake2b256() Algorithm {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a key longer than 64 bytes; we
		// never pass a key, so this is unreachable.
		panic(err)
	}
	return &hashAlgorithm{h: h}
}

// Algorithms registers every digest algorithm this package knows how to
// construct, by name. AlgorithmFor's version-selection table is kept
// separate and deliberately narrower: every entry below is a capability
// the kernel can use, not a claim that some version uses it. blake2b256
// is registered here and nowhere else -- see NewBlake2b256.
var Algorithms = map[string]func() Algorithm{
	"sha512-256":  NewSHA512_256,
	"blake2b-256": NewBlake2b256,
}

// AlgorithmFor returns the digest algorithm a job on the given version
// must use. The enumeration in package chainweb and this selection
// table are kept as a single source of truth (spec.md §9 Open
// Questions) -- an unrecognized version is an error, never a fallback.
func AlgorithmFor(v chainweb.Version) (func() Algorithm, error) {
	switch v {
	case chainweb.Test, chainweb.Simulation, chainweb.Testnet00:
		return Algorithms["sha512-256"], nil
	default:
		return nil, ErrUnknownVersion
	}
}
