package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesense/n2k/catalogue"
)

func TestBuildDirectLookupModel(t *testing.T) {
	l := catalogue.LookupEnumeration{
		Name:     "shipType",
		MaxValue: 99,
		EnumValues: []catalogue.EnumValue{
			{Name: "Reserved", Value: 0},
			{Name: "Reserved", Value: 1},
			{Name: "Fishing", Value: 30},
		},
	}

	m := BuildDirectLookupModel(l)
	assert.Equal(t, "ShipType", m.GoName)
	assert.Equal(t, "uint8", m.ReprType)
	require.Len(t, m.Variants, 3)
	assert.Equal(t, "Reserved", m.Variants[0].GoName)
	assert.Equal(t, "Reserved1", m.Variants[1].GoName)
	assert.Equal(t, "Fishing", m.Variants[2].GoName)
	assert.False(t, m.IsBitmask)
}

func TestBuildIndirectLookupModel_CombinesValuePair(t *testing.T) {
	l := catalogue.LookupIndirectEnumeration{
		Name: "engineType",
		EnumValues: []catalogue.IndirectEnumValue{
			{Name: "Diesel", Value1: 1, Value2: 2},
		},
	}

	m := BuildIndirectLookupModel(l)
	assert.Equal(t, "uint16", m.ReprType)
	require.Len(t, m.Variants, 1)
	assert.Equal(t, uint32(1)<<8|2, m.Variants[0].Value)
}

func TestBuildBitLookupModel(t *testing.T) {
	l := catalogue.LookupBitEnumeration{
		Name:     "alarmFlags",
		MaxValue: 7,
		EnumBitValues: []catalogue.BitEnumValue{
			{Name: "LowFuel", Bit: 0},
			{Name: "HighTemp", Bit: 3},
		},
	}

	m := BuildBitLookupModel(l)
	assert.True(t, m.IsBitmask)
	require.Len(t, m.Variants, 2)
	assert.Equal(t, uint32(3), m.Variants[1].Value)
}

func TestReprType(t *testing.T) {
	assert.Equal(t, "uint8", reprType(255))
	assert.Equal(t, "uint16", reprType(256))
	assert.Equal(t, "uint16", reprType(65535))
	assert.Equal(t, "uint32", reprType(65536))
}
