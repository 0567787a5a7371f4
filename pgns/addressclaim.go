// Package pgns holds hand-authored PGN message types in the shape n2kgen
// would emit for them: one struct, one PgnDescriptor, and one FieldAccess
// implementation per PGN.
package pgns

import "github.com/wavesense/n2k"

func u32(v uint32) *uint32   { return &v }
func boolp(v bool) *bool     { return &v }
func f32(v float32) *float32 { return &v }

// AddressClaim is PGN 60928: the 64-bit ISO 11783 NAME, broadcast to claim or
// defend a source address.
type AddressClaim struct {
	n2k.NoRepeatingFields

	UniqueNumber            uint32 // unique_number
	ManufacturerCode        uint16 // manufacturer_code
	DeviceInstanceLower     uint8  // device_instance_lower
	DeviceInstanceUpper     uint8  // device_instance_upper
	DeviceFunction          uint8  // device_function
	DeviceClass             uint8  // device_class
	SystemInstance          uint8  // system_instance
	IndustryGroup           uint8  // industry_group
	ArbitraryAddressCapable bool   // arbitrary_address_capable
}

// NewAddressClaim returns a zero-initialised AddressClaim.
func NewAddressClaim() *AddressClaim { return &AddressClaim{} }

var AddressClaimDescriptor = n2k.PgnDescriptor{
	ID:          60928,
	Name:        "AddressClaim",
	Description: "ISO Address Claim",
	FastPacket:  false,
	Fields: []n2k.FieldDescriptor{
		{ID: "unique_number", Kind: n2k.FieldNumber, BitsLength: u32(21)},
		{ID: "manufacturer_code", Kind: n2k.FieldNumber, BitsLength: u32(11)},
		{ID: "device_instance_lower", Kind: n2k.FieldNumber, BitsLength: u32(3)},
		{ID: "device_instance_upper", Kind: n2k.FieldNumber, BitsLength: u32(5)},
		{ID: "device_function", Kind: n2k.FieldNumber, BitsLength: u32(8)},
		{ID: "reserved", Kind: n2k.FieldReserved, BitsLength: u32(1)},
		{ID: "device_class", Kind: n2k.FieldNumber, BitsLength: u32(7)},
		{ID: "system_instance", Kind: n2k.FieldNumber, BitsLength: u32(4)},
		{ID: "industry_group", Kind: n2k.FieldNumber, BitsLength: u32(3)},
		{ID: "arbitrary_address_capable", Kind: n2k.FieldNumber, BitsLength: u32(1)},
	},
}

// Descriptor implements n2k.PgnData.
func (m *AddressClaim) Descriptor() *n2k.PgnDescriptor { return &AddressClaimDescriptor }

// Name packs the struct's fields into a single n2k.Name, matching the NAME
// bit layout documented on n2k.Name.
func (m *AddressClaim) Name() n2k.Name {
	return n2k.NewNameBuilder().
		WithUniqueNumber(m.UniqueNumber).
		WithManufacturerCode(m.ManufacturerCode).
		WithDeviceInstance(m.DeviceInstanceLower | (m.DeviceInstanceUpper << 3)).
		WithDeviceFunction(m.DeviceFunction).
		WithDeviceClass(m.DeviceClass).
		WithSystemInstance(m.SystemInstance).
		WithIndustryGroup(m.IndustryGroup).
		WithArbitraryAddressCapable(m.ArbitraryAddressCapable).
		Build()
}

// FromName unpacks a n2k.Name into the struct's fields, the inverse of Name.
func (m *AddressClaim) FromName(n n2k.Name) {
	m.UniqueNumber = n.UniqueNumber()
	m.ManufacturerCode = n.ManufacturerCode()
	m.DeviceInstanceLower = n.DeviceInstanceLower()
	m.DeviceInstanceUpper = n.DeviceInstanceUpper()
	m.DeviceFunction = n.DeviceFunction()
	m.DeviceClass = n.DeviceClass()
	m.SystemInstance = n.SystemInstance()
	m.IndustryGroup = n.IndustryGroup()
	m.ArbitraryAddressCapable = n.IsArbitraryAddressCapable()
}

// Field implements n2k.FieldAccess.
func (m *AddressClaim) Field(id string) (n2k.PgnValue, bool) {
	switch id {
	case "unique_number":
		return n2k.U32Value(m.UniqueNumber), true
	case "manufacturer_code":
		return n2k.U16Value(m.ManufacturerCode), true
	case "device_instance_lower":
		return n2k.U8Value(m.DeviceInstanceLower), true
	case "device_instance_upper":
		return n2k.U8Value(m.DeviceInstanceUpper), true
	case "device_function":
		return n2k.U8Value(m.DeviceFunction), true
	case "device_class":
		return n2k.U8Value(m.DeviceClass), true
	case "system_instance":
		return n2k.U8Value(m.SystemInstance), true
	case "industry_group":
		return n2k.U8Value(m.IndustryGroup), true
	case "reserved":
		return n2k.IgnoredValue(), true
	case "arbitrary_address_capable":
		if m.ArbitraryAddressCapable {
			return n2k.U8Value(1), true
		}
		return n2k.U8Value(0), true
	default:
		return n2k.PgnValue{}, false
	}
}

// FieldMut implements n2k.FieldAccess.
func (m *AddressClaim) FieldMut(id string, value n2k.PgnValue) bool {
	switch id {
	case "unique_number":
		m.UniqueNumber = uint32(value.AsUint64())
	case "manufacturer_code":
		m.ManufacturerCode = uint16(value.AsUint64())
	case "device_instance_lower":
		m.DeviceInstanceLower = uint8(value.AsUint64())
	case "device_instance_upper":
		m.DeviceInstanceUpper = uint8(value.AsUint64())
	case "device_function":
		m.DeviceFunction = uint8(value.AsUint64())
	case "device_class":
		m.DeviceClass = uint8(value.AsUint64())
	case "system_instance":
		m.SystemInstance = uint8(value.AsUint64())
	case "industry_group":
		m.IndustryGroup = uint8(value.AsUint64())
	case "arbitrary_address_capable":
		m.ArbitraryAddressCapable = value.AsUint64() != 0
	default:
		return false
	}
	return true
}
