// Package catalogue defines the JSON document shapes the code generator
// consumes: the PGN catalogue itself and the manifest that filters it down to
// the PGNs a build actually wants materialised.
package catalogue

import (
	"encoding/json"
	"fmt"
	"io/fs"
)

// FieldType is one of CANboat's field-type tags (4.C, 6. Catalogue input
// format).
type FieldType string

const (
	FieldTypeNumber         FieldType = "NUMBER"
	FieldTypeFloat          FieldType = "FLOAT"
	FieldTypeDecimal        FieldType = "DECIMAL"
	FieldTypeLookup         FieldType = "LOOKUP"
	FieldTypeIndirectLookup FieldType = "INDIRECT_LOOKUP"
	FieldTypeBitLookup      FieldType = "BITLOOKUP"
	FieldTypeTime           FieldType = "TIME"
	FieldTypeDate           FieldType = "DATE"
	FieldTypeDuration       FieldType = "DURATION"
	FieldTypeStringFix      FieldType = "STRING_FIX"
	FieldTypeStringLz       FieldType = "STRING_LZ"
	FieldTypeStringLau      FieldType = "STRING_LAU"
	FieldTypeBinary         FieldType = "BINARY"
	FieldTypeReserved       FieldType = "RESERVED"
	FieldTypeSpare          FieldType = "SPARE"
	FieldTypeMMSI           FieldType = "MMSI"
	FieldTypePgn            FieldType = "PGN"
)

var knownFieldTypes = map[FieldType]bool{
	FieldTypeNumber: true, FieldTypeFloat: true, FieldTypeDecimal: true,
	FieldTypeLookup: true, FieldTypeIndirectLookup: true, FieldTypeBitLookup: true,
	FieldTypeTime: true, FieldTypeDate: true, FieldTypeDuration: true,
	FieldTypeStringFix: true, FieldTypeStringLz: true, FieldTypeStringLau: true,
	FieldTypeBinary: true, FieldTypeReserved: true, FieldTypeSpare: true,
	FieldTypeMMSI: true, FieldTypePgn: true,
}

// UnmarshalJSON rejects field types unknown to this generator, matching the
// teacher's custom FieldType unmarshaller.
func (ft *FieldType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	tmp := FieldType(s)
	if !knownFieldTypes[tmp] {
		return fmt.Errorf("catalogue: unknown FieldType %q", s)
	}
	*ft = tmp
	return nil
}

// PacketType distinguishes single-frame PGNs from Fast Packet ones.
type PacketType string

const (
	PacketTypeFast   PacketType = "Fast"
	PacketTypeSingle PacketType = "Single"
	PacketTypeISO    PacketType = "ISO"
)

// UnmarshalJSON rejects packet types unknown to this generator.
func (pt *PacketType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch PacketType(s) {
	case PacketTypeFast, PacketTypeSingle, PacketTypeISO:
		*pt = PacketType(s)
		return nil
	default:
		return fmt.Errorf("catalogue: unknown PacketType %q", s)
	}
}

// Document is the top-level catalogue shape (6. Catalogue input format).
type Document struct {
	PGNs                        PGNs                       `json:"PGNs"`
	LookupEnumerations          LookupEnumerations         `json:"LookupEnumerations"`
	LookupIndirectEnumerations  LookupIndirectEnumerations `json:"LookupIndirectEnumerations"`
	LookupBitEnumerations       LookupBitEnumerations      `json:"LookupBitEnumerations"`
	LookupFieldTypeEnumerations json.RawMessage            `json:"LookupFieldTypeEnumerations,omitempty"`
}

// Load decodes a catalogue document from filesystem at path.
func Load(filesystem fs.FS, path string) (Document, error) {
	f, err := filesystem.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("catalogue: open %s: %w", path, err)
	}
	defer f.Close()

	var doc Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("catalogue: decode %s: %w", path, err)
	}
	return doc, nil
}

// PGNs is the catalogue's flat PGN list.
type PGNs []PGN

// FilterByManifest returns the subset of pgns listed in m, in manifest order.
func (pgns PGNs) FilterByManifest(m Manifest) PGNs {
	byID := make(map[uint32]PGN, len(pgns))
	for _, p := range pgns {
		if _, exists := byID[p.PGN]; !exists {
			byID[p.PGN] = p
		}
	}
	out := make(PGNs, 0, len(m.PGNs))
	for _, entry := range m.PGNs {
		if p, ok := byID[entry.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// PGN describes one Parameter Group Number entry (6. Catalogue input format).
type PGN struct {
	PGN         uint32     `json:"PGN"`
	ID          string     `json:"Id"`
	Description string     `json:"Description"`
	Explanation string     `json:"Explanation"`
	Type        PacketType `json:"Type"`
	Priority    *uint8     `json:"Priority,omitempty"`
	Length      *uint16    `json:"Length,omitempty"`
	FieldCount  *uint8     `json:"FieldCount,omitempty"`

	TransmissionInterval  *uint16 `json:"TransmissionInterval,omitempty"`
	TransmissionIrregular *bool   `json:"TransmissionIrregular,omitempty"`

	RepeatingFieldSet1Size       *uint16 `json:"RepeatingFieldSet1Size,omitempty"`
	RepeatingFieldSet1StartField *uint16 `json:"RepeatingFieldSet1StartField,omitempty"`
	RepeatingFieldSet1CountField *uint16 `json:"RepeatingFieldSet1CountField,omitempty"`

	RepeatingFieldSet2Size       *uint16 `json:"RepeatingFieldSet2Size,omitempty"`
	RepeatingFieldSet2StartField *uint16 `json:"RepeatingFieldSet2StartField,omitempty"`
	RepeatingFieldSet2CountField *uint16 `json:"RepeatingFieldSet2CountField,omitempty"`

	Fields []Field `json:"Fields"`
}

// Field describes one field within a PGN (6. Catalogue input format).
type Field struct {
	Order                          int16     `json:"Order"`
	ID                             string    `json:"Id"`
	Name                           string    `json:"Name"`
	FieldType                      FieldType `json:"FieldType"`
	BitLength                      *uint32   `json:"BitLength,omitempty"`
	BitLengthVariable              *bool     `json:"BitLengthVariable,omitempty"`
	BitOffset                      *uint32   `json:"BitOffset,omitempty"`
	Signed                         *bool     `json:"Signed,omitempty"`
	Resolution                     *float32  `json:"Resolution,omitempty"`
	LookupEnumeration              *string   `json:"LookupEnumeration,omitempty"`
	LookupIndirectEnumeration      *string   `json:"LookupIndirectEnumeration,omitempty"`
	LookupIndirectEnumerationOrder *uint16   `json:"LookupIndirectEnumerationFieldOrder,omitempty"`
	LookupBitEnumeration           *string   `json:"LookupBitEnumeration,omitempty"`
	Unit                           *string   `json:"Unit,omitempty"`
	PhysicalQuantity               *string   `json:"PhysicalQuantity,omitempty"`
	Description                    *string   `json:"Description,omitempty"`
}

// LookupEnumerations is the catalogue's direct-lookup table list.
type LookupEnumerations []LookupEnumeration

// LookupEnumeration is one direct lookup table: a bare value→name mapping.
type LookupEnumeration struct {
	Name       string      `json:"Name"`
	MaxValue   uint32      `json:"MaxValue"`
	EnumValues []EnumValue `json:"EnumValues"`
}

// EnumValue is one variant of a direct or indirect lookup.
type EnumValue struct {
	Name  string `json:"Name"`
	Value uint32 `json:"Value"`
}

// LookupIndirectEnumerations is the catalogue's indirect-lookup table list:
// variants keyed by a pair of 8-bit values combined into one 16-bit lookup
// key (4.C "helpers to split/combine the 16-bit compound value").
type LookupIndirectEnumerations []LookupIndirectEnumeration

// LookupIndirectEnumeration is one indirect lookup table.
type LookupIndirectEnumeration struct {
	Name       string              `json:"Name"`
	MaxValue   uint8               `json:"MaxValue"`
	EnumValues []IndirectEnumValue `json:"EnumValues"`
}

// IndirectEnumValue is one variant of an indirect lookup, keyed by two
// 8-bit halves combined as (Value1<<8)|Value2.
type IndirectEnumValue struct {
	Name   string `json:"Name"`
	Value1 uint8  `json:"Value1"`
	Value2 uint8  `json:"Value2"`
}

// LookupBitEnumerations is the catalogue's bitmask-lookup table list.
type LookupBitEnumerations []LookupBitEnumeration

// LookupBitEnumeration is one bitmask lookup table: each entry names a single
// bit position (4.C, Table 1 "FieldBitLookup").
type LookupBitEnumeration struct {
	Name          string         `json:"Name"`
	MaxValue      uint8          `json:"MaxValue"`
	EnumBitValues []BitEnumValue `json:"EnumBitValues"`
}

// BitEnumValue is one bit position within a LookupBitEnumeration.
type BitEnumValue struct {
	Name string `json:"Name"`
	Bit  uint8  `json:"Bit"`
}

// Manifest names the subset of catalogue PGNs a build should materialise
// (6. Manifest).
type Manifest struct {
	PGNs []ManifestEntry `json:"pgns"`
}

// ManifestEntry is one manifest line, naming a PGN by numeric id.
type ManifestEntry struct {
	ID uint32 `json:"id"`
}

// LoadManifest decodes a manifest document from filesystem at path.
func LoadManifest(filesystem fs.FS, path string) (Manifest, error) {
	f, err := filesystem.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("catalogue: open manifest %s: %w", path, err)
	}
	defer f.Close()

	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("catalogue: decode manifest %s: %w", path, err)
	}
	return m, nil
}
