package n2k

// CanID is an opaque 29-bit J1939 CAN identifier: 3-bit priority, 18-bit PGN
// (PDU1/PDU2 aware), an optional destination meaningful only for PDU1 PGNs,
// and an 8-bit source address.
//
// Bit layout of the underlying uint32 (bits 29-31 unused/zero):
//
//	26-28  priority
//	25     reserved bit (mirrors PGN bit 17)
//	24     data page (mirrors PGN bit 16)
//	16-23  PF (PDU format) byte, PGN bits 8-16
//	8-15   PS byte: destination for PDU1 (PF<240), low PGN byte for PDU2
//	0-7    source address
type CanID uint32

// Priority returns the 3-bit priority field (0-7).
func (id CanID) Priority() uint8 {
	return uint8((id >> 26) & 0x7)
}

// Source returns the 8-bit source address.
func (id CanID) Source() uint8 {
	return uint8(id)
}

// PF returns the PDU format byte (bits 16-23 of the identifier).
func (id CanID) PF() uint8 {
	return uint8(id >> 16)
}

// PS returns the raw PS byte (bits 8-15): the destination for PDU1 PGNs, or
// part of the PGN number for PDU2 PGNs.
func (id CanID) PS() uint8 {
	return uint8(id >> 8)
}

// PGN reconstructs the 18-bit Parameter Group Number, masking out PS when the
// identifier is a PDU1 (addressed) identifier.
func (id CanID) PGN() uint32 {
	pf := id.PF()
	rAndDP := uint32(id>>24) & 0x3
	pgn := (rAndDP << 16) | uint32(pf)<<8
	if pf >= 240 {
		pgn |= uint32(id.PS())
	}
	return pgn
}

// Destination returns the destination address and true if the identifier is
// a PDU1 (addressed) identifier; otherwise it returns (AddressGlobal, false).
func (id CanID) Destination() (uint8, bool) {
	if id.PF() < 240 {
		return id.PS(), true
	}
	return AddressGlobal, false
}

// CanIDBuilder is a fluent constructor for CanID enforcing the PDU1/PDU2
// placement rules of 4.E. Zero value is not usable; start with NewCanID.
type CanIDBuilder struct {
	priority    uint8
	pgn         uint32
	source      uint8
	destination uint8
	hasDest     bool
}

// NewCanID starts a builder for the given priority, PGN and source address.
// Priority is masked to 3 bits.
func NewCanID(priority uint8, pgn uint32, source uint8) *CanIDBuilder {
	return &CanIDBuilder{priority: priority & 0x7, pgn: pgn, source: source}
}

// WithDestination sets an explicit destination, selecting PDU1 (addressed)
// framing. Omitting this call selects PDU2 (broadcast) framing.
func (b *CanIDBuilder) WithDestination(destination uint8) *CanIDBuilder {
	b.destination = destination
	b.hasDest = true
	return b
}

// Build constructs the identifier, validating the PDU1/PDU2 rules of 4.E.
func (b *CanIDBuilder) Build() (CanID, error) {
	pf := uint8(b.pgn >> 8)
	rAndDP := uint32(b.pgn>>16) & 0x3
	ps := uint8(b.pgn)

	var psOut uint8
	if !b.hasDest {
		if pf < 240 {
			return 0, ErrBroadcastRequiresHighPF
		}
		psOut = ps
	} else {
		if pf >= 240 {
			return 0, ErrAddressedRequiresLowPF
		}
		if ps != 0 {
			return 0, ErrAddressedNonZeroPS
		}
		psOut = b.destination
	}

	out := uint32(b.source)
	out |= uint32(psOut) << 8
	out |= uint32(pf) << 16
	out |= rAndDP << 24
	out |= uint32(b.priority) << 26
	return CanID(out), nil
}

// ParseCanID decomposes a raw identifier value into a CanID, keeping the low
// 29 bits and clearing bits 29-31. It is provided for symmetry with
// CanIDBuilder.Build and for call sites reading a wire-format value.
func ParseCanID(raw uint32) CanID {
	return CanID(raw & 0x1FFFFFFF)
}
