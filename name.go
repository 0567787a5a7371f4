package n2k

// Name is the 64-bit ISO 11783 identity word (NAME) transported as the
// payload of PGN 60928 (Address Claim) and used to arbitrate ownership of a
// logical address.
//
// Bit layout (LSB to MSB):
//
//	0-20   unique number       (21 bits)
//	21-31  manufacturer code   (11 bits)
//	32-34  device instance lower (3 bits)
//	35-39  device instance upper (5 bits)
//	40-47  device function     (8 bits)
//	48     reserved            (1 bit)
//	49-55  device class        (7 bits)
//	56-59  system instance     (4 bits)
//	60-62  industry group      (3 bits)
//	63     arbitrary address capable (1 bit)
type Name uint64

// UniqueNumber returns the 21-bit unique number.
func (n Name) UniqueNumber() uint32 { return uint32(n) & 0x1FFFFF }

// ManufacturerCode returns the 11-bit manufacturer code.
func (n Name) ManufacturerCode() uint16 { return uint16(n>>21) & 0x7FF }

// DeviceInstanceLower returns the 3-bit lower device instance field.
func (n Name) DeviceInstanceLower() uint8 { return uint8(n>>32) & 0x7 }

// DeviceInstanceUpper returns the 5-bit upper device instance field.
func (n Name) DeviceInstanceUpper() uint8 { return uint8(n>>35) & 0x1F }

// DeviceInstance merges the lower/upper device instance fields into the full
// 8-bit device instance number.
func (n Name) DeviceInstance() uint8 {
	return n.DeviceInstanceLower() | (n.DeviceInstanceUpper() << 3)
}

// DeviceFunction returns the 8-bit device function.
func (n Name) DeviceFunction() uint8 { return uint8(n >> 40) }

// DeviceClass returns the 7-bit device class.
func (n Name) DeviceClass() uint8 { return uint8(n>>49) & 0x7F }

// SystemInstance returns the 4-bit system instance.
func (n Name) SystemInstance() uint8 { return uint8(n>>56) & 0xF }

// IndustryGroup returns the 3-bit industry group.
func (n Name) IndustryGroup() uint8 { return uint8(n>>60) & 0x7 }

// IsArbitraryAddressCapable reports whether bit 63 (AAC) is set.
func (n Name) IsArbitraryAddressCapable() bool { return n>>63&1 == 1 }

// IsMarine reports whether the industry group is 4 (Marine).
func (n Name) IsMarine() bool { return n.IndustryGroup() == 4 }

// Bytes returns the NAME as 8 little-endian bytes, the wire representation
// used in the PGN 60928 payload.
func (n Name) Bytes() [8]byte {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(n >> uint(i*8))
	}
	return b
}

// NameFromBytes parses 8 little-endian bytes into a Name.
func NameFromBytes(b [8]byte) Name {
	var n uint64
	for i := 7; i >= 0; i-- {
		n = (n << 8) | uint64(b[i])
	}
	return Name(n)
}

// NameBuilder constructs a Name field by field, matching the layout
// documented on Name.
type NameBuilder struct {
	uniqueNumber     uint32
	manufacturerCode uint16
	instanceLower    uint8
	instanceUpper    uint8
	deviceFunction   uint8
	deviceClass      uint8
	systemInstance   uint8
	industryGroup    uint8
	aac              bool
}

// NewNameBuilder returns an empty builder.
func NewNameBuilder() *NameBuilder { return &NameBuilder{} }

// WithUniqueNumber sets the 21-bit unique number, masking excess bits.
func (b *NameBuilder) WithUniqueNumber(v uint32) *NameBuilder {
	b.uniqueNumber = v & 0x1FFFFF
	return b
}

// WithManufacturerCode sets the 11-bit manufacturer code, masking excess bits.
func (b *NameBuilder) WithManufacturerCode(v uint16) *NameBuilder {
	b.manufacturerCode = v & 0x7FF
	return b
}

// WithDeviceInstance splits an 8-bit device instance into its lower-3/upper-5
// layout fields.
func (b *NameBuilder) WithDeviceInstance(v uint8) *NameBuilder {
	b.instanceLower = v & 0x7
	b.instanceUpper = (v >> 3) & 0x1F
	return b
}

// WithDeviceFunction sets the 8-bit device function.
func (b *NameBuilder) WithDeviceFunction(v uint8) *NameBuilder {
	b.deviceFunction = v
	return b
}

// WithDeviceClass sets the 7-bit device class, masking excess bits.
func (b *NameBuilder) WithDeviceClass(v uint8) *NameBuilder {
	b.deviceClass = v & 0x7F
	return b
}

// WithSystemInstance sets the 4-bit system instance, masking excess bits.
func (b *NameBuilder) WithSystemInstance(v uint8) *NameBuilder {
	b.systemInstance = v & 0xF
	return b
}

// WithIndustryGroup sets the 3-bit industry group, masking excess bits.
func (b *NameBuilder) WithIndustryGroup(v uint8) *NameBuilder {
	b.industryGroup = v & 0x7
	return b
}

// WithArbitraryAddressCapable sets the AAC flag.
func (b *NameBuilder) WithArbitraryAddressCapable(v bool) *NameBuilder {
	b.aac = v
	return b
}

// Build assembles the final Name.
func (b *NameBuilder) Build() Name {
	var n uint64
	n |= uint64(b.uniqueNumber) & 0x1FFFFF
	n |= (uint64(b.manufacturerCode) & 0x7FF) << 21
	n |= (uint64(b.instanceLower) & 0x7) << 32
	n |= (uint64(b.instanceUpper) & 0x1F) << 35
	n |= uint64(b.deviceFunction) << 40
	n |= (uint64(b.deviceClass) & 0x7F) << 49
	n |= (uint64(b.systemInstance) & 0xF) << 56
	n |= (uint64(b.industryGroup) & 0x7) << 60
	if b.aac {
		n |= 1 << 63
	}
	return Name(n)
}
