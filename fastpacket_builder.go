package n2k

import "sync/atomic"

// MaxFastPacketPayload is the largest payload Fast Packet can carry: 6 bytes
// in the first frame plus 7 bytes in each of the remaining 31 frames.
const MaxFastPacketPayload = 223

var globalSequenceID uint32

// nextSequenceID returns the next 3-bit Fast Packet sequence identifier,
// incrementing a process-wide atomic counter modulo 8 (5.concurrency:
// "the Fast Packet sequence-id counter is process-wide").
func nextSequenceID() uint8 {
	v := atomic.AddUint32(&globalSequenceID, 1)
	return uint8(v) & 0x07
}

// FastPacketBuilder lazily turns a payload into one or more CAN frames (4.F).
// Use NewFastPacketBuilder then Next repeatedly until ok is false.
type FastPacketBuilder struct {
	pgn         uint32
	source      uint8
	destination uint8
	hasDest     bool
	payload     []byte
	sequenceID  uint8

	frameIndex uint8
	bytesSent  int
	done       bool
}

// NewFastPacketBuilder starts a builder for payload, auto-assigning the next
// process-wide sequence id. Use WithSequenceID before the first call to Next
// to override it (e.g. for deterministic tests).
func NewFastPacketBuilder(pgn uint32, source uint8, payload []byte) *FastPacketBuilder {
	return &FastPacketBuilder{
		pgn:        pgn,
		source:     source,
		payload:    payload,
		sequenceID: nextSequenceID(),
	}
}

// WithDestination selects PDU1 (addressed) framing for the underlying
// identifier.
func (b *FastPacketBuilder) WithDestination(destination uint8) *FastPacketBuilder {
	b.destination = destination
	b.hasDest = true
	return b
}

// WithSequenceID overrides the 3-bit sequence identifier, masking to 3 bits.
// Intended for tests and replay, not production use: NewFastPacketBuilder
// already serializes emitters via the process-wide counter.
func (b *FastPacketBuilder) WithSequenceID(id uint8) *FastPacketBuilder {
	b.sequenceID = id & 0x07
	return b
}

func (b *FastPacketBuilder) buildID() (CanID, error) {
	builder := NewCanID(6, b.pgn, b.source)
	if b.hasDest {
		builder = builder.WithDestination(b.destination)
	}
	return builder.Build()
}

// Next produces the next frame. ok is false once the payload is exhausted.
func (b *FastPacketBuilder) Next() (frame CanFrame, ok bool, err error) {
	if b.done {
		return CanFrame{}, false, nil
	}
	if len(b.payload) == 0 {
		b.done = true
		return CanFrame{}, false, ErrEmptyPayload
	}
	if b.bytesSent >= len(b.payload) {
		return CanFrame{}, false, nil
	}
	if len(b.payload) > MaxFastPacketPayload {
		b.done = true
		return CanFrame{}, false, ErrIdentifierInvalidData
	}

	id, err := b.buildID()
	if err != nil {
		b.done = true
		return CanFrame{}, false, err
	}

	total := len(b.payload)
	if total <= 8 {
		var data [8]byte
		for i := range data {
			data[i] = 0xFF
		}
		n := copy(data[:], b.payload)
		b.bytesSent = total
		b.done = true
		return CanFrame{ID: id, Data: data, Len: uint8(n)}, true, nil
	}

	header := (b.sequenceID&0x07)<<5 | (b.frameIndex & 0x1F)
	var data [8]byte
	for i := range data {
		data[i] = 0xFF
	}

	var length int
	if b.bytesSent == 0 {
		data[0] = header
		data[1] = uint8(total)
		n := copy(data[2:], b.payload[:min(6, total)])
		b.bytesSent += n
		length = 2 + n
	} else {
		data[0] = header
		remaining := total - b.bytesSent
		n := copy(data[1:], b.payload[b.bytesSent:b.bytesSent+min(7, remaining)])
		b.bytesSent += n
		length = 1 + n
	}
	b.frameIndex++

	return CanFrame{ID: id, Data: data, Len: uint8(length)}, true, nil
}
