package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesense/n2k/catalogue"
)

func TestGenerate_RendersExpectedIdentifiers(t *testing.T) {
	doc := catalogue.Document{
		PGNs: catalogue.PGNs{
			{
				PGN:         127251,
				ID:          "rateOfTurn",
				Description: "Rate of Turn",
				Type:        catalogue.PacketTypeSingle,
				Fields: []catalogue.Field{
					{ID: "sid", Name: "SID", FieldType: catalogue.FieldTypeNumber, BitLength: bitLen(8)},
					{ID: "rate", Name: "Rate", FieldType: catalogue.FieldTypeNumber, BitLength: bitLen(32),
						Signed: boolPtr(true), Resolution: floatPtr(3.125e-05)},
					{ID: "reserved", Name: "Reserved", FieldType: catalogue.FieldTypeReserved, BitLength: bitLen(24)},
				},
			},
		},
	}
	manifest := catalogue.Manifest{PGNs: []catalogue.ManifestEntry{{ID: 127251}}}

	result, err := Generate(doc, manifest, "pgns", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	src := string(result.Source)
	assert.Contains(t, src, "package pgns")
	assert.Contains(t, src, "type RateOfTurn struct")
	assert.Contains(t, src, "n2k.NoRepeatingFields")
	assert.Contains(t, src, `case "sid":`)
	assert.Contains(t, src, `case "reserved":`)
	assert.Contains(t, src, "n2k.IgnoredValue()")
	assert.Contains(t, src, "var RateOfTurnDescriptor")
}

func TestGenerate_SkipsMalformedPgnWithWarning(t *testing.T) {
	doc := catalogue.Document{
		PGNs: catalogue.PGNs{
			{PGN: 1, ID: "good", Type: catalogue.PacketTypeSingle,
				Fields: []catalogue.Field{{ID: "a", FieldType: catalogue.FieldTypeNumber, BitLength: bitLen(8)}}},
			{PGN: 2, ID: "bad", Type: catalogue.PacketTypeSingle,
				Fields: []catalogue.Field{{ID: "b", FieldType: ""}}},
		},
	}
	manifest := catalogue.Manifest{PGNs: []catalogue.ManifestEntry{{ID: 1}, {ID: 2}}}

	result, err := Generate(doc, manifest, "pgns", nil)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, uint32(2), result.Warnings[0].PGN)

	src := string(result.Source)
	assert.Contains(t, src, "type Good struct")
	assert.False(t, strings.Contains(src, "type Bad struct"))
}

func TestGenerate_OnlyReferencedLookupsAreEmitted(t *testing.T) {
	lookupName := "shipType"
	doc := catalogue.Document{
		PGNs: catalogue.PGNs{
			{PGN: 1, ID: "vesselType", Type: catalogue.PacketTypeSingle,
				Fields: []catalogue.Field{
					{ID: "shiptype", FieldType: catalogue.FieldTypeLookup, BitLength: bitLen(8), LookupEnumeration: &lookupName},
				}},
		},
		LookupEnumerations: catalogue.LookupEnumerations{
			{Name: "shipType", MaxValue: 99, EnumValues: []catalogue.EnumValue{{Name: "Fishing", Value: 30}}},
			{Name: "unreferenced", MaxValue: 1, EnumValues: []catalogue.EnumValue{{Name: "Foo", Value: 0}}},
		},
	}
	manifest := catalogue.Manifest{PGNs: []catalogue.ManifestEntry{{ID: 1}}}

	result, err := Generate(doc, manifest, "pgns", nil)
	require.NoError(t, err)

	src := string(result.Source)
	assert.Contains(t, src, "type ShipType uint8")
	assert.False(t, strings.Contains(src, "type Unreferenced"))
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float32) *float32 { return &f }
