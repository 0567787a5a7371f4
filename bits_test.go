package n2k

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitReaderWriterRoundTrip_Unsigned(t *testing.T) {
	for width := 1; width <= 64; width++ {
		width := width
		t.Run("", func(t *testing.T) {
			maxV := uint64(1)<<uint(width) - 1
			if width == 64 {
				maxV = ^uint64(0)
			}
			for _, v := range []uint64{0, 1, maxV, maxV / 2} {
				buf := make([]byte, 16)
				w := NewBitWriter(buf)
				require.NoError(t, w.WriteUint(v, width))

				r := NewBitReader(buf)
				got, err := r.ReadUint(width)
				require.NoError(t, err)
				assert.Equal(t, v&maxV, got, "width=%d value=%d", width, v)
			}
		})
	}
}

func TestBitReaderWriter_PackingConvention(t *testing.T) {
	// Two 4-bit fields packed into a single byte: bit 0 is LSB and consumed
	// first, per 4.A.
	buf := make([]byte, 1)
	w := NewBitWriter(buf)
	require.NoError(t, w.WriteUint(0xA, 4)) // low nibble
	require.NoError(t, w.WriteUint(0xB, 4)) // high nibble
	assert.Equal(t, byte(0xBA), buf[0])

	r := NewBitReader(buf)
	low, err := r.ReadUint(4)
	require.NoError(t, err)
	high, err := r.ReadUint(4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xA), low)
	assert.Equal(t, uint64(0xB), high)
}

func TestBitReaderWriter_SpansByteBoundary(t *testing.T) {
	buf := make([]byte, 2)
	w := NewBitWriter(buf)
	require.NoError(t, w.WriteUint(0x3FF, 10)) // 10 bits spanning two bytes

	r := NewBitReader(buf)
	got, err := r.ReadUint(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x3FF), got)
}

func TestBitReader_Advance(t *testing.T) {
	buf := []byte{0xFF, 0xAB}
	r := NewBitReader(buf)
	require.NoError(t, r.Advance(8))
	v, err := r.ReadU8(8)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), v)
}

func TestBitReader_OutOfBounds(t *testing.T) {
	r := NewBitReader([]byte{0x00})
	_, err := r.ReadUint(9)
	require.Error(t, err)
	var be *BoundsError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 9, be.Requested)
	assert.Equal(t, 8, be.Available)
}

func TestBitReader_WidthBound(t *testing.T) {
	r := NewBitReader([]byte{0, 0, 0, 0})
	_, err := r.ReadU8(9)
	assert.ErrorIs(t, err, ErrBitWidth)
}

func TestBitReaderWriter_SliceAlignment(t *testing.T) {
	buf := make([]byte, 2)
	w := NewBitWriter(buf)
	require.NoError(t, w.WriteUint(1, 1))
	err := w.WriteSlice([]byte{0xFF})
	assert.ErrorIs(t, err, ErrBitMisaligned)

	r := NewBitReader(buf)
	_, err = r.ReadUint(1)
	require.NoError(t, err)
	_, err = r.ReadSlice(1)
	assert.ErrorIs(t, err, ErrBitMisaligned)
}

func TestBitReaderWriter_SliceRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	w := NewBitWriter(buf)
	require.NoError(t, w.WriteSlice([]byte{0x11, 0x22, 0x33}))

	r := NewBitReader(buf)
	got, err := r.ReadSlice(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11, 0x22, 0x33}, got)
}

// Quantified invariants 1 and 2 from spec section 8.
func TestSignedUnsignedRoundTrip_AllWidths(t *testing.T) {
	for n := 1; n <= 64; n++ {
		buf := make([]byte, 16)

		var maxSigned, minSigned int64
		if n == 64 {
			maxSigned = int64(1<<63 - 1)
			minSigned = -(1 << 63)
		} else {
			maxSigned = int64(1)<<uint(n-1) - 1
			minSigned = -(int64(1) << uint(n-1))
		}

		for _, v := range []int64{minSigned, -1, 0, 1, maxSigned} {
			w := NewBitWriter(buf)
			require.NoError(t, w.WriteUint(uint64(v), n))
			r := NewBitReader(buf)
			raw, err := r.ReadUint(n)
			require.NoError(t, err)
			assert.Equal(t, v, signExtend(raw, n), "n=%d v=%d", n, v)
		}
	}
}
