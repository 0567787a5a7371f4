package pgns

import "github.com/wavesense/n2k"

// RateOfTurn is PGN 127251: the vessel's rate of turn about its vertical
// axis, positive for a turn to starboard.
type RateOfTurn struct {
	n2k.NoRepeatingFields

	SID  uint8   // sid
	Rate float32 // rate, radians/s
}

// NewRateOfTurn returns a zero-initialised RateOfTurn.
func NewRateOfTurn() *RateOfTurn { return &RateOfTurn{} }

var RateOfTurnDescriptor = n2k.PgnDescriptor{
	ID:          127251,
	Name:        "RateOfTurn",
	Description: "Rate of Turn",
	FastPacket:  false,
	Fields: []n2k.FieldDescriptor{
		{ID: "sid", Kind: n2k.FieldNumber, BitsLength: u32(8)},
		{ID: "rate", Kind: n2k.FieldNumber, BitsLength: u32(32), IsSigned: boolp(true), Resolution: f32(3.125e-05)},
		{ID: "reserved", Kind: n2k.FieldReserved, BitsLength: u32(24)},
	},
}

// Descriptor implements n2k.PgnData.
func (m *RateOfTurn) Descriptor() *n2k.PgnDescriptor { return &RateOfTurnDescriptor }

// Field implements n2k.FieldAccess.
func (m *RateOfTurn) Field(id string) (n2k.PgnValue, bool) {
	switch id {
	case "sid":
		return n2k.U8Value(m.SID), true
	case "rate":
		return n2k.F32Value(m.Rate), true
	case "reserved":
		return n2k.IgnoredValue(), true
	default:
		return n2k.PgnValue{}, false
	}
}

// FieldMut implements n2k.FieldAccess.
func (m *RateOfTurn) FieldMut(id string, value n2k.PgnValue) bool {
	switch id {
	case "sid":
		m.SID = uint8(value.AsUint64())
		return true
	case "rate":
		m.Rate = float32(value.AsFloat64())
		return true
	default:
		return false
	}
}
