package n2k

// MaxPGNBytes is the maximum payload size held by a PgnBytes container: the
// 223-byte Fast Packet limit plus a small safety margin, matching the bound
// used throughout the codec engine's bounded buffers.
const MaxPGNBytes = 230

// PgnBytes is a fixed-capacity, stack-allocatable byte container used for
// string/binary field values, avoiding heap allocation on the codec hot
// path.
type PgnBytes struct {
	data [MaxPGNBytes]byte
	len  int
}

// NewPgnBytes returns an empty container.
func NewPgnBytes() PgnBytes { return PgnBytes{} }

// Len reports the number of valid bytes stored.
func (b PgnBytes) Len() int { return b.len }

// IsEmpty reports whether the container holds no bytes.
func (b PgnBytes) IsEmpty() bool { return b.len == 0 }

// Clear resets the container to empty without zeroing the backing array.
func (b *PgnBytes) Clear() { b.len = 0 }

// SetBytes copies src into the container, truncating to MaxPGNBytes.
func (b *PgnBytes) SetBytes(src []byte) {
	n := len(src)
	if n > MaxPGNBytes {
		n = MaxPGNBytes
	}
	copy(b.data[:n], src[:n])
	b.len = n
}

// Bytes returns the populated prefix of the container.
func (b PgnBytes) Bytes() []byte { return b.data[:b.len] }

// PgnValueKind tags the active alternative of a PgnValue.
type PgnValueKind uint8

const (
	PgnValueIgnored PgnValueKind = iota
	PgnValueU8
	PgnValueU16
	PgnValueU32
	PgnValueU64
	PgnValueI8
	PgnValueI16
	PgnValueI32
	PgnValueI64
	PgnValueF32
	PgnValueF64
	PgnValueBytes
)

// PgnValue is the dynamic value container the codec engine uses to pass
// field values across the FieldAccess boundary, since Go's generated message
// structures are statically typed internally but must be addressed
// polymorphically by the engine.
type PgnValue struct {
	kind  PgnValueKind
	u     uint64
	i     int64
	f     float64
	bytes PgnBytes
}

// Kind reports which alternative is active.
func (v PgnValue) Kind() PgnValueKind { return v.kind }

func IgnoredValue() PgnValue          { return PgnValue{kind: PgnValueIgnored} }
func U8Value(v uint8) PgnValue        { return PgnValue{kind: PgnValueU8, u: uint64(v)} }
func U16Value(v uint16) PgnValue      { return PgnValue{kind: PgnValueU16, u: uint64(v)} }
func U32Value(v uint32) PgnValue      { return PgnValue{kind: PgnValueU32, u: uint64(v)} }
func U64Value(v uint64) PgnValue      { return PgnValue{kind: PgnValueU64, u: v} }
func I8Value(v int8) PgnValue         { return PgnValue{kind: PgnValueI8, i: int64(v)} }
func I16Value(v int16) PgnValue       { return PgnValue{kind: PgnValueI16, i: int64(v)} }
func I32Value(v int32) PgnValue       { return PgnValue{kind: PgnValueI32, i: int64(v)} }
func I64Value(v int64) PgnValue       { return PgnValue{kind: PgnValueI64, i: v} }
func F32Value(v float32) PgnValue     { return PgnValue{kind: PgnValueF32, f: float64(v)} }
func F64Value(v float64) PgnValue     { return PgnValue{kind: PgnValueF64, f: v} }
func BytesValue(b PgnBytes) PgnValue  { return PgnValue{kind: PgnValueBytes, bytes: b} }

// AsUint64 returns the value reinterpreted as a uint64, valid for any of the
// unsigned or signed integer kinds.
func (v PgnValue) AsUint64() uint64 {
	switch v.kind {
	case PgnValueU8, PgnValueU16, PgnValueU32, PgnValueU64:
		return v.u
	case PgnValueI8, PgnValueI16, PgnValueI32, PgnValueI64:
		return uint64(v.i)
	default:
		return 0
	}
}

// AsInt64 returns the value reinterpreted as an int64, valid for any signed
// integer kind.
func (v PgnValue) AsInt64() int64 {
	switch v.kind {
	case PgnValueI8, PgnValueI16, PgnValueI32, PgnValueI64:
		return v.i
	case PgnValueU8, PgnValueU16, PgnValueU32, PgnValueU64:
		return int64(v.u)
	default:
		return 0
	}
}

// AsFloat64 returns the value as a float64, valid for PgnValueF32/PgnValueF64.
func (v PgnValue) AsFloat64() float64 { return v.f }

// AsBytes returns the bounded bytes container, valid for PgnValueBytes.
func (v PgnValue) AsBytes() PgnBytes { return v.bytes }
