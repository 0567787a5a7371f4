package n2k

// FieldKind is the semantic category of a PGN field, controlling how the
// codec engine interprets its bits (Table 1, 4.D).
type FieldKind uint8

const (
	// FieldNumber is a signed or unsigned integer; signedness carried
	// separately on the descriptor.
	FieldNumber FieldKind = iota
	// FieldFloat is a floating-point value.
	FieldFloat
	// FieldLookup is an index into a direct lookup enumeration.
	FieldLookup
	// FieldIndirectLookup is resolved through another field's value.
	FieldIndirectLookup
	// FieldBitLookup is a bitfield where each bit is an independent flag.
	FieldBitLookup
	// FieldPgn encodes a Parameter Group Number controlling interactions.
	FieldPgn
	// FieldDate is a day count since the Unix epoch, 16 bits.
	FieldDate
	// FieldTime is time since midnight UTC, resolution 0.0001s, 32 bits.
	FieldTime
	// FieldDuration is a duration in seconds.
	FieldDuration
	// FieldMmsi is a Maritime Mobile Service Identity, 32 bits.
	FieldMmsi
	// FieldDecimal is a BCD-encoded decimal string.
	FieldDecimal
	// FieldStringFix is a fixed-length ASCII string.
	FieldStringFix
	// FieldStringLz is a length-prefixed, NUL-terminated string.
	FieldStringLz
	// FieldStringLau is a length+encoding-prefixed string.
	FieldStringLau
	// FieldBinary is a raw binary block.
	FieldBinary
	// FieldReserved are bits ignored on read, set to all-ones on write.
	FieldReserved
	// FieldSpare are bits ignored on read, set to all-zeros on write.
	FieldSpare
	// FieldIsoName is a 64-bit device identity field.
	FieldIsoName
	// FieldUnimplemented marks a field kind not supported yet.
	FieldUnimplemented
)

// FieldDescriptor is an immutable, compile-time record describing a single
// PGN field's wire layout. Optional attributes that are meaningfully absent
// (rather than zero) use pointer types, matching the Rust original's
// Option<T> fields.
type FieldDescriptor struct {
	// ID is the field identifier used by the FieldAccess capability.
	ID string
	// Name is the human-readable field name.
	Name string
	// Kind is the field's semantic category.
	Kind FieldKind
	// BitsLength is the field's fixed bit length, if any.
	BitsLength *uint32
	// BitsLengthVar marks a variable-length field's declared bit unit
	// (e.g. per-character width for StringLz/StringLau).
	BitsLengthVar *uint32
	// BitsOffset is the absolute bit offset of the first bit, if fixed.
	BitsOffset *uint32
	// IsSigned indicates whether Number/Pgn/Lookup/IndirectLookup values
	// are sign-extended.
	IsSigned *bool
	// Resolution is the scale factor applied on read (multiply) and write
	// (divide), producing a floating-point dynamic value when present.
	Resolution *float32
	// EnumDirectName names a direct lookup enumeration.
	EnumDirectName *string
	// EnumIndirectName names an indirect lookup enumeration.
	EnumIndirectName *string
	// EnumIndirectFieldOrder is this field's order among the indirect
	// lookup's composing fields.
	EnumIndirectFieldOrder *uint16
	// PhysicalUnit is a diagnostic unit tag (e.g. "m/s").
	PhysicalUnit *string
	// PhysicalQuantity is a diagnostic physical-quantity tag.
	PhysicalQuantity *string
}

// RepeatingFieldSet describes one repeating group within a PGN: which fields
// repeat, how many times, and where the repetition count is read from.
//
// Example (PGN 129540, GNSS Sats in View): field 4 ("satellites in view") is
// the counter; fields 5-11 (elevation, azimuth, SNR, ...) are the repeating
// group, so if the counter reads 5 those seven fields repeat five times.
type RepeatingFieldSet struct {
	// ArrayID is the repeating array's identifier, used by
	// RepetitiveField/RepetitiveFieldMut.
	ArrayID string
	// CountFieldIndex is the index, into the owning PgnDescriptor's Fields,
	// of the field holding the repetition count. Nil when the group has no
	// counter field; Deserialize rejects such a group with an error.
	CountFieldIndex *int
	// StartFieldIndex is the index of the first repeating field.
	StartFieldIndex int
	// Size is the number of consecutive fields forming one repetition.
	Size int
	// MaxRepetitions is the statically computed maximum instance count,
	// derived from the Fast Packet limit (<=223 bytes) and the PGN's fixed
	// portion.
	MaxRepetitions int
}

// PgnDescriptor is the single source of truth the codec engine consults for
// one PGN's binary layout. Generated code builds these as package-level
// variables; the engine only ever reads them.
type PgnDescriptor struct {
	ID              uint32
	Name            string
	Description     string
	Priority        *uint8
	FastPacket      bool
	Length          *uint16
	FieldCount      *uint8
	TransInterval   *uint16
	TransIrregular  *bool
	Fields          []FieldDescriptor
	RepeatingFieldSets []RepeatingFieldSet
}

// IsRepetitiveField reports whether the field at index idx (into d.Fields)
// belongs to one of d.RepeatingFieldSets.
func (d *PgnDescriptor) IsRepetitiveField(idx int) bool {
	for _, rfs := range d.RepeatingFieldSets {
		if idx >= rfs.StartFieldIndex && idx < rfs.StartFieldIndex+rfs.Size {
			return true
		}
	}
	return false
}
