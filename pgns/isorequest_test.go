package pgns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesense/n2k"
)

func TestISORequest_RoundTrip(t *testing.T) {
	src := NewISORequest()
	src.RequestedPgn = 60928

	buf := make([]byte, 3)
	n, err := n2k.Serialize(src, buf, src.Descriptor())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{0x00, 0xee, 0x00}, buf)

	dst := NewISORequest()
	require.NoError(t, n2k.Deserialize(dst, buf[:n], dst.Descriptor()))
	assert.Equal(t, uint32(60928), dst.RequestedPgn)
}
