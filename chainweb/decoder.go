package chainweb

import "encoding/binary"

// simpleHeaderLen is SimpleDecoder's fixed serialized length: the
// mutable 16-byte prefix plus a 4-byte chain id, an 8-byte height, and
// a 32-byte target.
const simpleHeaderLen = HeaderPrefixLen + 4 + 8 + TargetLen

// SimpleDecoder is a minimal Decoder for a flat, fixed-length header
// layout: [nonce(8) | time(8) | chain id(4) | height(8) | target(32)].
// The real wire format a Chainweb node uses is out of this core's
// scope (spec.md §1); SimpleDecoder exists so the worker is runnable
// standalone and so cmd/chainweb-mining-worker has a concrete Decoder
// to wire without inventing a node integration.
type SimpleDecoder struct{}

func (SimpleDecoder) HeaderLength() int { return simpleHeaderLen }

func (SimpleDecoder) Decode(buf []byte) (*BlockHeader, error) {
	if len(buf) != simpleHeaderLen {
		return nil, ErrWrongHeaderLength
	}
	chainID := ChainID(binary.LittleEndian.Uint32(buf[16:20]))
	height := BlockHeight(binary.LittleEndian.Uint64(buf[20:28]))
	target, err := ParseTarget(buf[28:60])
	if err != nil {
		return nil, err
	}
	return NewBlockHeader(chainID, height, target, buf)
}
