package pgns

import "github.com/wavesense/n2k"

// ISORequest is PGN 59904: a request for another node to transmit the named
// PGN, used by network discovery to solicit Address Claims.
type ISORequest struct {
	n2k.NoRepeatingFields

	RequestedPgn uint32 // pgn
}

// NewISORequest returns a zero-initialised ISORequest.
func NewISORequest() *ISORequest { return &ISORequest{} }

var ISORequestDescriptor = n2k.PgnDescriptor{
	ID:          59904,
	Name:        "ISORequest",
	Description: "ISO Request",
	FastPacket:  false,
	Fields: []n2k.FieldDescriptor{
		{ID: "pgn", Kind: n2k.FieldPgn, BitsLength: u32(24)},
	},
}

// Descriptor implements n2k.PgnData.
func (m *ISORequest) Descriptor() *n2k.PgnDescriptor { return &ISORequestDescriptor }

// Field implements n2k.FieldAccess.
func (m *ISORequest) Field(id string) (n2k.PgnValue, bool) {
	switch id {
	case "pgn":
		return n2k.U32Value(m.RequestedPgn), true
	default:
		return n2k.PgnValue{}, false
	}
}

// FieldMut implements n2k.FieldAccess.
func (m *ISORequest) FieldMut(id string, value n2k.PgnValue) bool {
	switch id {
	case "pgn":
		m.RequestedPgn = uint32(value.AsUint64())
		return true
	default:
		return false
	}
}
