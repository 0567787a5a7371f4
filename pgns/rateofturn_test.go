package pgns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesense/n2k"
)

func TestRateOfTurn_RoundTrip(t *testing.T) {
	src := NewRateOfTurn()
	src.SID = 7
	src.Rate = 0.5

	buf := make([]byte, 8)
	n, err := n2k.Serialize(src, buf, src.Descriptor())
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	dst := NewRateOfTurn()
	require.NoError(t, n2k.Deserialize(dst, buf[:n], dst.Descriptor()))

	assert.Equal(t, uint8(7), dst.SID)
	assert.InDelta(t, 0.5, dst.Rate, 1e-4)
}

func TestRateOfTurn_NegativeRate(t *testing.T) {
	src := NewRateOfTurn()
	src.Rate = -0.125

	buf := make([]byte, 8)
	n, err := n2k.Serialize(src, buf, src.Descriptor())
	require.NoError(t, err)

	dst := NewRateOfTurn()
	require.NoError(t, n2k.Deserialize(dst, buf[:n], dst.Descriptor()))
	assert.InDelta(t, -0.125, dst.Rate, 1e-4)
}
