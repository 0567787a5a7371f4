package gen

import "github.com/wavesense/n2k/catalogue"

// LookupVariant is one normalized enum variant, ready for template rendering.
type LookupVariant struct {
	GoName string
	Value  uint32
}

// LookupModel is the generator's normalized view of one catalogue lookup
// table, direct or indirect (4.C "for every lookup table: an enumeration...
// a fallible conversion... a default variant equal to the first listed
// value").
type LookupModel struct {
	GoName    string
	ReprType  string // smallest unsigned Go type covering MaxValue
	Variants  []LookupVariant
	IsBitmask bool
}

// BuildDirectLookupModel normalizes a direct LookupEnumeration.
func BuildDirectLookupModel(l catalogue.LookupEnumeration) LookupModel {
	names := make([]string, len(l.EnumValues))
	values := make([]uint32, len(l.EnumValues))
	for i, v := range l.EnumValues {
		names[i] = ToPascalCase(v.Name)
		values[i] = v.Value
	}
	names = DisambiguateVariants(names, values)

	variants := make([]LookupVariant, len(names))
	for i := range names {
		variants[i] = LookupVariant{GoName: names[i], Value: values[i]}
	}
	return LookupModel{
		GoName:   ToPascalCase(l.Name),
		ReprType: reprType(l.MaxValue),
		Variants: variants,
	}
}

// BuildIndirectLookupModel normalizes an indirect lookup table, combining
// each entry's two 8-bit halves into one 16-bit variant value
// (4.C "helpers to split/combine the 16-bit compound value").
func BuildIndirectLookupModel(l catalogue.LookupIndirectEnumeration) LookupModel {
	names := make([]string, len(l.EnumValues))
	values := make([]uint32, len(l.EnumValues))
	for i, v := range l.EnumValues {
		names[i] = ToPascalCase(v.Name)
		values[i] = uint32(v.Value1)<<8 | uint32(v.Value2)
	}
	names = DisambiguateVariants(names, values)

	variants := make([]LookupVariant, len(names))
	for i := range names {
		variants[i] = LookupVariant{GoName: names[i], Value: values[i]}
	}
	return LookupModel{
		GoName:   ToPascalCase(l.Name),
		ReprType: "uint16",
		Variants: variants,
	}
}

// BuildBitLookupModel normalizes a bitmask lookup table: each variant names
// a single bit position rather than a value.
func BuildBitLookupModel(l catalogue.LookupBitEnumeration) LookupModel {
	names := make([]string, len(l.EnumBitValues))
	values := make([]uint32, len(l.EnumBitValues))
	for i, v := range l.EnumBitValues {
		names[i] = ToPascalCase(v.Name)
		values[i] = uint32(v.Bit)
	}
	names = DisambiguateVariants(names, values)

	variants := make([]LookupVariant, len(names))
	for i := range names {
		variants[i] = LookupVariant{GoName: names[i], Value: values[i]}
	}
	return LookupModel{
		GoName:    ToPascalCase(l.Name),
		ReprType:  reprType(uint32(l.MaxValue)),
		Variants:  variants,
		IsBitmask: true,
	}
}

func reprType(maxValue uint32) string {
	switch {
	case maxValue <= 0xFF:
		return "uint8"
	case maxValue <= 0xFFFF:
		return "uint16"
	default:
		return "uint32"
	}
}
