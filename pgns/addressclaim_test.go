package pgns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesense/n2k"
)

func TestAddressClaim_RoundTrip(t *testing.T) {
	src := NewAddressClaim()
	src.FromName(n2k.NewNameBuilder().
		WithUniqueNumber(123456).
		WithManufacturerCode(1851).
		WithDeviceInstance(2).
		WithDeviceFunction(132).
		WithDeviceClass(25).
		WithSystemInstance(1).
		WithIndustryGroup(4).
		WithArbitraryAddressCapable(true).
		Build())

	buf := make([]byte, 8)
	n, err := n2k.Serialize(src, buf, src.Descriptor())
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	dst := NewAddressClaim()
	require.NoError(t, n2k.Deserialize(dst, buf[:n], dst.Descriptor()))

	assert.Equal(t, src.Name(), dst.Name())
	assert.True(t, dst.ArbitraryAddressCapable)
	assert.Equal(t, uint8(4), dst.IndustryGroup)
}

func TestAddressClaim_ReservedBitIgnoredOnRead(t *testing.T) {
	src := NewAddressClaim()
	src.FromName(n2k.NewNameBuilder().WithUniqueNumber(7).Build())

	buf := make([]byte, 8)
	n, err := n2k.Serialize(src, buf, src.Descriptor())
	require.NoError(t, err)

	dst := NewAddressClaim()
	require.NoError(t, n2k.Deserialize(dst, buf[:n], dst.Descriptor()))
	assert.Equal(t, uint32(7), dst.UniqueNumber)
}
