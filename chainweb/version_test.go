package chainweb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionWireRoundTrip(t *testing.T) {
	for _, v := range []Version{Test, Simulation, Testnet00} {
		got, err := DecodeVersion(EncodeVersion(v))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVersionWireTags(t *testing.T) {
	cases := []struct {
		v    Version
		want [4]byte
	}{
		{Test, [4]byte{0x00, 0x00, 0x00, 0x00}},
		{Simulation, [4]byte{0x01, 0x00, 0x00, 0x00}},
		{Testnet00, [4]byte{0x02, 0x00, 0x00, 0x00}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, EncodeVersion(c.v))
	}
}

func TestDecodeVersionUnknownTagFails(t *testing.T) {
	_, err := DecodeVersion([4]byte{0x03, 0x00, 0x00, 0x00})
	require.Error(t, err)
}

func TestVersionTextRoundTrip(t *testing.T) {
	for _, s := range []string{"test", "simulation", "testnet00"} {
		v, err := ParseVersion(s)
		require.NoError(t, err)
		require.Equal(t, s, v.String())
	}
}

func TestParseVersionUnknownFails(t *testing.T) {
	_, err := ParseVersion("Test")
	require.Error(t, err)

	_, err = ParseVersion("timedconsensus")
	require.Error(t, err)
}
