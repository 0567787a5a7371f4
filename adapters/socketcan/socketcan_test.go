package socketcan

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wavesense/n2k"
)

func TestFrameWireEncoding(t *testing.T) {
	id, err := n2k.NewCanID(3, 0x1EF00, 0xA1).WithDestination(0x1D).Build()
	assert.NoError(t, err)

	frame := n2k.CanFrame{ID: id, Len: 4}
	copy(frame.Data[:], []byte{0x01, 0x02, 0x03, 0x04})

	raw := make([]byte, 16)
	canID := uint32(frame.ID) | canIDEFFFlag
	binary.LittleEndian.PutUint32(raw[0:4], canID)
	raw[4] = frame.Len
	copy(raw[8:], frame.Payload())

	gotID := binary.LittleEndian.Uint32(raw[0:4])
	assert.NotZero(t, gotID&canIDEFFFlag)
	assert.Zero(t, gotID&canIDRTRFlag)
	assert.Zero(t, gotID&canIDERRFlag)

	decoded := n2k.ParseCanID(gotID &^ canIDMask)
	assert.Equal(t, id, decoded)
	assert.Equal(t, uint8(3), decoded.Priority())
	dest, ok := decoded.Destination()
	assert.True(t, ok)
	assert.Equal(t, uint8(0x1D), dest)
	assert.Equal(t, uint8(0xA1), decoded.Source())

	assert.Equal(t, byte(4), raw[4])
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, raw[8:12])
}

func TestRTRAndErrFlagsDetected(t *testing.T) {
	rtr := uint32(0x123) | canIDRTRFlag | canIDEFFFlag
	assert.NotZero(t, rtr&canIDRTRFlag)

	errFrame := uint32(0x123) | canIDERRFlag | canIDEFFFlag
	assert.NotZero(t, errFrame&canIDERRFlag)
}
