package pgns

import "github.com/wavesense/n2k"

const satsInViewMaxRepetitions = 27

// GNSSSatInView is one satellite entry within SatsInView's repeating field
// set.
type GNSSSatInView struct {
	PRN       uint8   // prn
	Elevation float32 // elevation, radians
	Azimuth   float32 // azimuth, radians
	SNR       float32 // snr, dB
}

// SatsInView is PGN 129540: the GNSS satellites currently in view, one entry
// per tracked satellite (the spec's repeating-field-set example).
type SatsInView struct {
	SID             uint8 // sid
	Mode            uint8 // mode
	Reserved        uint8 // reserved
	SatsInViewCount int
	Entries         [satsInViewMaxRepetitions]GNSSSatInView
}

// NewSatsInView returns a zero-initialised SatsInView.
func NewSatsInView() *SatsInView { return &SatsInView{} }

var satsInViewCountFieldIndex = 3

var SatsInViewDescriptor = n2k.PgnDescriptor{
	ID:          129540,
	Name:        "SatsInView",
	Description: "GNSS Sats in View",
	FastPacket:  true,
	Fields: []n2k.FieldDescriptor{
		{ID: "sid", Kind: n2k.FieldNumber, BitsLength: u32(8)},
		{ID: "mode", Kind: n2k.FieldNumber, BitsLength: u32(4)},
		{ID: "reserved", Kind: n2k.FieldReserved, BitsLength: u32(4)},
		{ID: "sats_in_view", Kind: n2k.FieldNumber, BitsLength: u32(8)},
		{ID: "prn", Kind: n2k.FieldNumber, BitsLength: u32(8)},
		{ID: "elevation", Kind: n2k.FieldNumber, BitsLength: u32(16), IsSigned: boolp(true), Resolution: f32(0.0001)},
		{ID: "azimuth", Kind: n2k.FieldNumber, BitsLength: u32(16), Resolution: f32(0.0001)},
		{ID: "snr", Kind: n2k.FieldNumber, BitsLength: u32(16), Resolution: f32(0.01)},
		{ID: "entry_reserved", Kind: n2k.FieldReserved, BitsLength: u32(8)},
	},
	RepeatingFieldSets: []n2k.RepeatingFieldSet{
		{
			ArrayID:         "sats_in_view_entries",
			CountFieldIndex: &satsInViewCountFieldIndex,
			StartFieldIndex: 4,
			Size:            5,
			MaxRepetitions:  satsInViewMaxRepetitions,
		},
	},
}

// Descriptor implements n2k.PgnData.
func (m *SatsInView) Descriptor() *n2k.PgnDescriptor { return &SatsInViewDescriptor }

// Field implements n2k.FieldAccess.
func (m *SatsInView) Field(id string) (n2k.PgnValue, bool) {
	switch id {
	case "sid":
		return n2k.U8Value(m.SID), true
	case "mode":
		return n2k.U8Value(m.Mode), true
	case "sats_in_view":
		return n2k.U8Value(uint8(m.SatsInViewCount)), true
	case "reserved":
		return n2k.IgnoredValue(), true
	default:
		return n2k.PgnValue{}, false
	}
}

// FieldMut implements n2k.FieldAccess.
func (m *SatsInView) FieldMut(id string, value n2k.PgnValue) bool {
	switch id {
	case "sid":
		m.SID = uint8(value.AsUint64())
	case "mode":
		m.Mode = uint8(value.AsUint64())
	case "sats_in_view":
		m.SatsInViewCount = int(value.AsUint64())
	default:
		return false
	}
	return true
}

// RepetitiveField implements n2k.FieldAccess.
func (m *SatsInView) RepetitiveField(arrayID string, index int, fieldID string) (n2k.PgnValue, bool) {
	if arrayID != "sats_in_view_entries" || index < 0 || index >= m.SatsInViewCount {
		return n2k.PgnValue{}, false
	}
	e := &m.Entries[index]
	switch fieldID {
	case "prn":
		return n2k.U8Value(e.PRN), true
	case "elevation":
		return n2k.F32Value(e.Elevation), true
	case "azimuth":
		return n2k.F32Value(e.Azimuth), true
	case "snr":
		return n2k.F32Value(e.SNR), true
	case "entry_reserved":
		return n2k.IgnoredValue(), true
	default:
		return n2k.PgnValue{}, false
	}
}

// RepetitiveFieldMut implements n2k.FieldAccess.
func (m *SatsInView) RepetitiveFieldMut(arrayID string, index int, fieldID string, value n2k.PgnValue) bool {
	if arrayID != "sats_in_view_entries" || index < 0 || index >= len(m.Entries) {
		return false
	}
	e := &m.Entries[index]
	switch fieldID {
	case "prn":
		e.PRN = uint8(value.AsUint64())
	case "elevation":
		e.Elevation = float32(value.AsFloat64())
	case "azimuth":
		e.Azimuth = float32(value.AsFloat64())
	case "snr":
		e.SNR = float32(value.AsFloat64())
	default:
		return false
	}
	return true
}

// RepetitiveCount implements n2k.FieldAccess.
func (m *SatsInView) RepetitiveCount(arrayID string) (int, bool) {
	if arrayID != "sats_in_view_entries" {
		return 0, false
	}
	return m.SatsInViewCount, true
}

// SetRepetitiveCount implements n2k.FieldAccess.
func (m *SatsInView) SetRepetitiveCount(arrayID string, count int) bool {
	if arrayID != "sats_in_view_entries" || count > len(m.Entries) {
		return false
	}
	m.SatsInViewCount = count
	return true
}
