package n2k

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFrames(t *testing.T, pgn uint32, source uint8, seq uint8, payload []byte) [][]byte {
	t.Helper()
	b := NewFastPacketBuilder(pgn, source, payload).WithSequenceID(seq)
	var out [][]byte
	for {
		f, ok, err := b.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		d := append([]byte(nil), f.Data[:f.Len]...)
		out = append(out, d)
	}
	return out
}

// Invariant 10: up to 4 distinct (source, sequence_id) streams reassemble
// independently when interleaved through one assembler.
func TestFastPacketAssembler_InterleavedStreams(t *testing.T) {
	payloads := [][]byte{
		make([]byte, 20),
		make([]byte, 15),
		make([]byte, 9),
		make([]byte, 223),
	}
	for i := range payloads {
		for j := range payloads[i] {
			payloads[i][j] = byte(i*50 + j)
		}
	}

	var streams [][][]byte
	for i, p := range payloads {
		streams = append(streams, buildFrames(t, 129540, uint8(10+i), uint8(i), p))
	}

	asm := NewFastPacketAssembler()
	results := make([]CompletedMessage, len(payloads))
	done := make([]bool, len(payloads))

	// Interleave: round-robin one frame from each stream.
	maxFrames := 0
	for _, s := range streams {
		if len(s) > maxFrames {
			maxFrames = len(s)
		}
	}
	for round := 0; round < maxFrames; round++ {
		for i, s := range streams {
			if round >= len(s) {
				continue
			}
			res := asm.ProcessFrame(uint8(10+i), s[round])
			if res == MessageComplete {
				results[i] = asm.Completed()
				done[i] = true
			}
		}
	}

	for i, p := range payloads {
		require.True(t, done[i], "stream %d did not complete", i)
		assert.Equal(t, p, results[i].Bytes(), "stream %d payload mismatch", i)
	}
}

// A resent frame_index 0 does not resume the still-in-progress session; it
// starts a fresh one in another free slot, leaving the original to be
// completed by its own later fragments.
func TestFastPacketAssembler_RestartDoesNotDisturbInProgressSession(t *testing.T) {
	frames := buildFrames(t, 129540, 1, 0, make([]byte, 15))
	asm := NewFastPacketAssembler()

	res := asm.ProcessFrame(1, frames[0])
	assert.Equal(t, FragmentConsumed, res)

	res = asm.ProcessFrame(1, frames[0])
	assert.Equal(t, FragmentConsumed, res)

	res = asm.ProcessFrame(1, frames[1])
	assert.Equal(t, FragmentConsumed, res)
	res = asm.ProcessFrame(1, frames[2])
	assert.Equal(t, MessageComplete, res)
}

// A continuation frame resent with the same frame_index it already
// delivered is out of sequence and resets the session.
func TestFastPacketAssembler_RepeatedContinuationResets(t *testing.T) {
	frames := buildFrames(t, 129540, 1, 0, make([]byte, 20))
	asm := NewFastPacketAssembler()

	require.Equal(t, FragmentConsumed, asm.ProcessFrame(1, frames[0]))
	require.Equal(t, FragmentConsumed, asm.ProcessFrame(1, frames[1]))
	// Resend frame 1 instead of advancing to frame 2.
	assert.Equal(t, Ignored, asm.ProcessFrame(1, frames[1]))
	// The session was reset, so resuming at frame 2 now is also out of
	// sequence.
	assert.Equal(t, Ignored, asm.ProcessFrame(1, frames[2]))
}

func TestFastPacketAssembler_OutOfOrderResets(t *testing.T) {
	frames := buildFrames(t, 129540, 1, 0, make([]byte, 20))
	asm := NewFastPacketAssembler()

	require.Equal(t, FragmentConsumed, asm.ProcessFrame(1, frames[0]))
	// Skip frame 1, deliver frame 2 out of order: session resets, ignored.
	assert.Equal(t, Ignored, asm.ProcessFrame(1, frames[2]))
	// The original sequence cannot be resumed now since the session reset.
	assert.Equal(t, Ignored, asm.ProcessFrame(1, frames[1]))
}

func TestFastPacketAssembler_PoolExhaustionDropsNewSource(t *testing.T) {
	asm := NewFastPacketAssembler()
	// Fill all 4 slots with distinct in-progress sessions.
	for i := 0; i < MaxConcurrentSessions; i++ {
		frames := buildFrames(t, 129540, uint8(i), uint8(i), make([]byte, 20))
		res := asm.ProcessFrame(uint8(i), frames[0])
		require.Equal(t, FragmentConsumed, res)
	}
	// A fifth, distinct source starting a new session is dropped.
	frames := buildFrames(t, 129540, 99, 0, make([]byte, 20))
	res := asm.ProcessFrame(99, frames[0])
	assert.Equal(t, Ignored, res)
}

func TestFastPacketAssembler_SessionReuseBySource(t *testing.T) {
	asm := NewFastPacketAssembler()
	// Fill one slot with source 1, then complete it.
	frames1 := buildFrames(t, 129540, 1, 0, make([]byte, 9))
	for _, f := range frames1 {
		asm.ProcessFrame(1, f)
	}
	// Fill the remaining 3 slots.
	for i := 2; i <= 4; i++ {
		frames := buildFrames(t, 129540, uint8(i), uint8(i), make([]byte, 20))
		asm.ProcessFrame(uint8(i), frames[0])
	}
	// Source 1 starting again should find its now-inactive slot reused.
	frames := buildFrames(t, 129540, 1, 5, make([]byte, 20))
	res := asm.ProcessFrame(1, frames[0])
	assert.Equal(t, FragmentConsumed, res)
}

func TestFastPacketAssembler_InvalidLengthIgnored(t *testing.T) {
	asm := NewFastPacketAssembler()
	assert.Equal(t, Ignored, asm.ProcessFrame(1, []byte{0x00, 5, 1, 2, 3, 4, 5, 6}))
	assert.Equal(t, Ignored, asm.ProcessFrame(1, []byte{0x00, 224, 1, 2, 3, 4, 5, 6}))
}
