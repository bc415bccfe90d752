package chainweb

import (
	"encoding/binary"
	"fmt"
)

// Byte offsets of the fields the mining core is allowed to touch.
// Everything else in a serialized header is opaque (spec.md §3).
const (
	// NonceOffset is where the little-endian 64-bit nonce lives.
	NonceOffset = 0
	// TimeOffset is where the little-endian 64-bit creation-time
	// (microseconds since epoch) lives.
	TimeOffset = 8
	// HeaderPrefixLen is the number of leading bytes the kernel
	// mutates; everything at or past this offset is opaque.
	HeaderPrefixLen = 16
)

// ChainID identifies one of a Chainweb network's parallel chains.
type ChainID uint32

// BlockHeight is a block's height on its chain.
type BlockHeight uint64

// Key identifies a mining job and its eventual result. Chain id and
// height together are unique per spec.md §3.
type Key struct {
	ChainID ChainID
	Height  BlockHeight
}

// BlockHeader is the decoded, logical view of a header. The core reads
// ChainID, Height and Target from it at job submission time and writes
// Nonce/CreationTime back into the serialized form after mining;
// everything else is round-tripped opaquely via Decoder.
type BlockHeader struct {
	ChainID      ChainID
	Height       BlockHeight
	Nonce        uint64
	CreationTime uint64 // microseconds since epoch
	Target       Target

	// encoded is the full serialized buffer this header was produced
	// from (or that Mutate produces). Opaque bytes past HeaderPrefixLen
	// are preserved verbatim across mutation.
	encoded []byte
}

// NewBlockHeader builds a BlockHeader from a Decoder's parsed fields
// plus the full serialized buffer it was parsed from. It is the only
// way for code outside this package (an external Decoder
// implementation) to produce a BlockHeader, which keeps Nonce and
// CreationTime always in sync with encoded's leading bytes -- a
// Decoder cannot construct one with a mismatched encoded buffer.
func NewBlockHeader(chainID ChainID, height BlockHeight, target Target, encoded []byte) (*BlockHeader, error) {
	if len(encoded) < HeaderPrefixLen {
		return nil, fmt.Errorf("chainweb: header buffer too short: got %d bytes, want at least %d", len(encoded), HeaderPrefixLen)
	}
	buf := make([]byte, len(encoded))
	copy(buf, encoded)
	return &BlockHeader{
		ChainID:      chainID,
		Height:       height,
		Nonce:        binary.LittleEndian.Uint64(buf[NonceOffset : NonceOffset+8]),
		CreationTime: binary.LittleEndian.Uint64(buf[TimeOffset : TimeOffset+8]),
		Target:       target,
		encoded:      buf,
	}, nil
}

// Encoded returns the header's current serialized form. The returned
// slice must not be retained past the next Mutate call.
func (h *BlockHeader) Encoded() []byte {
	return h.encoded
}

// Mutate rewrites the nonce and creation-time fields of the header's
// serialized buffer in place and updates the logical fields to match.
// It never touches bytes at or past HeaderPrefixLen.
func (h *BlockHeader) Mutate(nonce, creationTimeMicros uint64) {
	binary.LittleEndian.PutUint64(h.encoded[NonceOffset:NonceOffset+8], nonce)
	binary.LittleEndian.PutUint64(h.encoded[TimeOffset:TimeOffset+8], creationTimeMicros)
	h.Nonce = nonce
	h.CreationTime = creationTimeMicros
}

// Key returns the (chain id, height) pair identifying this header.
func (h *BlockHeader) Key() Key {
	return Key{ChainID: h.ChainID, Height: h.Height}
}

// Decoder is the external collaborator (spec.md §1, §6) that knows the
// full wire format of a header. The mining core never constructs or
// inspects a BlockHeader's opaque bytes itself; it only asks a Decoder
// to turn bytes into a BlockHeader and back.
//
// A Decoder must accept any byte string produced by mutating only
// bytes [0,16) of a previously-encoded header -- that is the contract
// the kernel's in-place mutation relies on.
type Decoder interface {
	// Decode parses a fixed-length serialized header into its logical
	// form. It must fail if the buffer's length isn't the network's
	// fixed header length L, or if the embedded target field is
	// malformed -- these are the caller-misuse errors of spec.md §7.
	Decode(buf []byte) (*BlockHeader, error)

	// HeaderLength returns the fixed serialized length L for this
	// network version.
	HeaderLength() int
}
