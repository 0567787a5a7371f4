package gen

import (
	"fmt"

	"github.com/wavesense/n2k/catalogue"
)

// FieldModel is the generator's normalized view of one catalogue field,
// computed once and then only read by the template (4.C).
type FieldModel struct {
	ID            string // original catalogue Id, used as the FieldAccess key
	GoName        string // PascalCase struct field name
	Kind          string // n2k.FieldKind constant name, e.g. "FieldNumber"
	GoType        string // Go type of the struct field
	BitsLength    uint32
	Signed        bool
	HasResolution bool
	Resolution    float32
	Comment       string
}

// RepeatingGroupModel describes one RepeatingFieldSet, if the PGN has one.
type RepeatingGroupModel struct {
	ArrayID         string
	EntryGoName     string
	CountFieldIndex int
	StartFieldIndex int
	Size            int
	MaxRepetitions  int
	Fields          []FieldModel
}

// PgnModel is the generator's normalized view of one catalogue PGN.
type PgnModel struct {
	ID          uint32
	GoName      string
	Description string
	Priority    *uint8
	FastPacket  bool
	Length      *uint16

	Fields []FieldModel // non-repeating fields, in wire order
	Group  *RepeatingGroupModel
}

// Warning is a build-time, non-fatal diagnostic (4.C "Error policy").
type Warning struct {
	PGN     uint32
	Message string
}

// BuildPgnModel normalizes one catalogue PGN entry. A malformed entry (e.g.
// an unsupported field kind with no declared bit length) is reported via the
// returned warning and ok=false, never an error: the caller skips it and
// continues with the rest of the manifest (4.C "Error policy").
func BuildPgnModel(p catalogue.PGN) (PgnModel, []Warning, bool) {
	var warnings []Warning
	m := PgnModel{
		ID:          p.PGN,
		GoName:      ToPascalCase(p.ID),
		Description: p.Description,
		Priority:    p.Priority,
		FastPacket:  p.Type == catalogue.PacketTypeFast,
		Length:      p.Length,
	}

	groupStart := -1
	if p.RepeatingFieldSet1StartField != nil && *p.RepeatingFieldSet1StartField > 0 {
		groupStart = int(*p.RepeatingFieldSet1StartField) - 1 // catalogue indices are 1-based
	}

	for i, f := range p.Fields {
		fm, warn, ok := buildFieldModel(p.PGN, f)
		if !ok {
			warnings = append(warnings, warn)
			return PgnModel{}, warnings, false
		}
		if groupStart >= 0 && i >= groupStart {
			continue
		}
		m.Fields = append(m.Fields, fm)
	}

	if groupStart >= 0 {
		size := 0
		if p.RepeatingFieldSet1Size != nil {
			size = int(*p.RepeatingFieldSet1Size)
		}
		countIdx := 0
		if p.RepeatingFieldSet1CountField != nil {
			countIdx = int(*p.RepeatingFieldSet1CountField) - 1
		}
		group := &RepeatingGroupModel{
			ArrayID:         ToSnakeCase(p.ID) + "_entries",
			EntryGoName:     m.GoName + "Entry",
			CountFieldIndex: countIdx,
			StartFieldIndex: groupStart,
			Size:            size,
		}
		for i := groupStart; i < groupStart+size && i < len(p.Fields); i++ {
			fm, warn, ok := buildFieldModel(p.PGN, p.Fields[i])
			if !ok {
				warnings = append(warnings, warn)
				return PgnModel{}, warnings, false
			}
			group.Fields = append(group.Fields, fm)
		}
		group.MaxRepetitions = maxRepetitions(p, size)
		m.Group = group
	}

	return m, warnings, true
}

// maxRepetitions derives a static repetition cap from the Fast Packet
// payload ceiling (223 bytes) and the fixed portion's byte size, matching
// 4.C "Repeating groups" (a fixed-capacity array, no heap growth).
func maxRepetitions(p catalogue.PGN, groupSizeFields int) int {
	if groupSizeFields == 0 {
		return 0
	}
	fixedBits := 0
	groupBits := 0
	groupStart := 0
	if p.RepeatingFieldSet1StartField != nil {
		groupStart = int(*p.RepeatingFieldSet1StartField) - 1
	}
	for i, f := range p.Fields {
		width := uint32(0)
		if f.BitLength != nil {
			width = *f.BitLength
		}
		if i >= groupStart && i < groupStart+groupSizeFields {
			groupBits += int(width)
		} else if i < groupStart {
			fixedBits += int(width)
		}
	}
	if groupBits == 0 {
		return 0
	}
	remainingBits := (223-((fixedBits+7)/8))*8
	if remainingBits <= 0 {
		return 0
	}
	return remainingBits / groupBits
}

func buildFieldModel(pgn uint32, f catalogue.Field) (FieldModel, Warning, bool) {
	kind, goType, ok := mapFieldKind(f)
	if !ok {
		return FieldModel{}, Warning{PGN: pgn, Message: fmt.Sprintf("field %q: unsupported FieldType %q, skipping PGN", f.ID, f.FieldType)}, false
	}

	width := uint32(0)
	if f.BitLength != nil {
		width = *f.BitLength
	}
	signed := f.Signed != nil && *f.Signed

	fm := FieldModel{
		ID:         f.ID,
		GoName:     ToPascalCase(f.ID),
		Kind:       kind,
		GoType:     goType,
		BitsLength: width,
		Signed:     signed,
		Comment:    f.Name,
	}
	if f.Resolution != nil {
		fm.HasResolution = true
		fm.Resolution = *f.Resolution
	}
	return fm, Warning{}, true
}

// mapFieldKind maps a catalogue FieldType to the n2k.FieldKind constant name
// and the Go struct-field type the generated message uses to hold it
// (4.D Table 1).
func mapFieldKind(f catalogue.Field) (kind, goType string, ok bool) {
	switch f.FieldType {
	case catalogue.FieldTypeNumber:
		return "FieldNumber", numericGoType(f), true
	case catalogue.FieldTypePgn:
		return "FieldPgn", "uint32", true
	case catalogue.FieldTypeLookup:
		return "FieldLookup", numericGoType(f), true
	case catalogue.FieldTypeIndirectLookup:
		return "FieldIndirectLookup", numericGoType(f), true
	case catalogue.FieldTypeBitLookup:
		return "FieldBitLookup", "uint32", true
	case catalogue.FieldTypeReserved:
		return "FieldReserved", "", true
	case catalogue.FieldTypeSpare:
		return "FieldSpare", "", true
	case catalogue.FieldTypeStringFix:
		return "FieldStringFix", "n2k.PgnBytes", true
	case catalogue.FieldTypeStringLz:
		return "FieldStringLz", "n2k.PgnBytes", true
	case catalogue.FieldTypeStringLau:
		return "FieldStringLau", "n2k.PgnBytes", true
	case catalogue.FieldTypeBinary:
		return "FieldBinary", "n2k.PgnBytes", true
	case catalogue.FieldTypeDate:
		return "FieldDate", "uint16", true
	case catalogue.FieldTypeTime:
		return "FieldTime", numericGoType(f), true
	case catalogue.FieldTypeDuration:
		return "FieldDuration", numericGoType(f), true
	case catalogue.FieldTypeMMSI:
		return "FieldMmsi", "uint32", true
	case catalogue.FieldTypeDecimal:
		return "FieldDecimal", "n2k.PgnBytes", true
	default:
		return "", "", false
	}
}

func numericGoType(f catalogue.Field) string {
	if f.Resolution != nil {
		if f.BitLength != nil && *f.BitLength > 32 {
			return "float64"
		}
		return "float32"
	}
	width := uint32(32)
	if f.BitLength != nil {
		width = *f.BitLength
	}
	signed := f.Signed != nil && *f.Signed
	switch {
	case width <= 8:
		if signed {
			return "int8"
		}
		return "uint8"
	case width <= 16:
		if signed {
			return "int16"
		}
		return "uint16"
	case width <= 32:
		if signed {
			return "int32"
		}
		return "uint32"
	default:
		if signed {
			return "int64"
		}
		return "uint64"
	}
}
