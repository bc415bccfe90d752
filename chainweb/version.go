// Copyright (c) 2024 Kadena LLC.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package chainweb describes the parts of a Chainweb block header the
// mining core touches: the network version tag and the fixed-offset
// byte layout of a serialized header. Everything else about a header
// is opaque to this repository (spec.md §1).
package chainweb

import (
	"encoding/binary"
	"fmt"
)

// Version is a closed enumeration of the Chainweb networks this worker
// knows how to mine for. The wire tag and text form of each value are
// part of the network's stable encoding and must never be renumbered.
type Version uint32

const (
	// Test is the in-process test network.
	Test Version = iota
	// Simulation is the local multi-node simulation network.
	Simulation
	// Testnet00 is the public test network.
	Testnet00
)

// String returns the exact, case-sensitive text form used on the wire
// and in configuration files.
func (v Version) String() string {
	switch v {
	case Test:
		return "test"
	case Simulation:
		return "simulation"
	case Testnet00:
		return "testnet00"
	default:
		return fmt.Sprintf("unknown-version-%d", uint32(v))
	}
}

// ParseVersion decodes the exact, case-sensitive text form of a
// version. Unknown names fail to parse rather than silently defaulting
// -- guessing at an unlisted network is exactly the mistake spec.md's
// Open Questions warn against.
func ParseVersion(s string) (Version, error) {
	switch s {
	case "test":
		return Test, nil
	case "simulation":
		return Simulation, nil
	case "testnet00":
		return Testnet00, nil
	default:
		return 0, fmt.Errorf("chainweb: unknown version %q", s)
	}
}

// EncodeVersion returns the 4-byte little-endian wire tag for v.
func EncodeVersion(v Version) [4]byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	return buf
}

// DecodeVersion decodes a 4-byte little-endian wire tag. An unknown tag
// is a decode failure, not a best-effort guess.
func DecodeVersion(buf [4]byte) (Version, error) {
	tag := binary.LittleEndian.Uint32(buf[:])
	switch Version(tag) {
	case Test, Simulation, Testnet00:
		return Version(tag), nil
	default:
		return 0, fmt.Errorf("chainweb: unknown version wire tag 0x%08x", tag)
	}
}
