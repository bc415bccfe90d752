package chainweb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maxTarget() Target {
	var t Target
	for i := range t {
		t[i] = 0xff
	}
	return t
}

func TestTargetSatisfiesMax(t *testing.T) {
	target := maxTarget()
	var digest [32]byte
	for i := range digest {
		digest[i] = 0xff
	}
	assert.True(t, target.Satisfies(&digest), "max digest should satisfy max target (inclusive bound)")
}

func TestTargetSatisfiesZero(t *testing.T) {
	var target Target // all zero: only a zero digest satisfies
	var zero, nonzero [32]byte
	nonzero[0] = 1

	assert.True(t, target.Satisfies(&zero), "zero digest should satisfy zero target")
	assert.False(t, target.Satisfies(&nonzero), "nonzero digest must not satisfy zero target")
}

func TestTargetMostSignificantLimbDominates(t *testing.T) {
	var target Target
	target[31] = 0x01 // most significant byte of word 3

	var below, above [32]byte
	below[31] = 0x00
	for i := 0; i < 24; i++ {
		below[i] = 0xff // lower words maxed out, but msb word is 0 < target's
	}
	above[31] = 0x02

	assert.True(t, target.Satisfies(&below), "digest with smaller most-significant limb should satisfy target")
	assert.False(t, target.Satisfies(&above), "digest with larger most-significant limb must not satisfy target")
}

func TestParseTargetWrongLength(t *testing.T) {
	_, err := ParseTarget(make([]byte, 31))
	require.Error(t, err)

	_, err = ParseTarget(make([]byte, 32))
	require.NoError(t, err)
}
