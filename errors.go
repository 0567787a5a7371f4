package n2k

import "errors"

// Identifier errors (4.E).
var (
	// ErrIdentifierInvalidData is returned by the Fast Packet builder for a
	// payload longer than MaxFastPacketPayload. CanIDBuilder.Build reports
	// only the more specific error kinds below.
	ErrIdentifierInvalidData = errors.New("n2k: invalid identifier data")
	// ErrAddressedRequiresLowPF is returned when a destination is given but
	// the PGN's PF byte is >= 240 (a PDU2/broadcast-only PGN).
	ErrAddressedRequiresLowPF = errors.New("n2k: addressed message requires PF < 240")
	// ErrBroadcastRequiresHighPF is returned when no destination is given
	// but the PGN's PF byte is < 240 (a PDU1/addressed-only PGN).
	ErrBroadcastRequiresHighPF = errors.New("n2k: broadcast message requires PF >= 240")
	// ErrAddressedNonZeroPS is returned when a destination is given for a
	// PDU1 PGN whose low byte (PS) is not zero.
	ErrAddressedNonZeroPS = errors.New("n2k: addressed PGN must have zero PS byte")
	// ErrEmptyPayload is returned when a Fast Packet payload of length zero
	// is presented to the builder.
	ErrEmptyPayload = errors.New("n2k: empty payload")
)

// Bit I/O errors (4.A).
var (
	// ErrBitOutOfBounds is returned when a read or write would cross the
	// end of the buffer. Use BoundsError to recover requested/available bit
	// counts.
	ErrBitOutOfBounds = errors.New("n2k: bit cursor out of bounds")
	// ErrBitWidth is returned when a requested bit width exceeds the bound
	// of the helper called (e.g. asking ReadU8 for 9 bits).
	ErrBitWidth = errors.New("n2k: bit width exceeds helper bound")
	// ErrBitMisaligned is returned when a byte-slice read/write is
	// attempted at a cursor position that is not byte-aligned.
	ErrBitMisaligned = errors.New("n2k: cursor is not byte-aligned")
)

// BoundsError carries the requested and available bit counts for
// ErrBitOutOfBounds.
type BoundsError struct {
	Requested int
	Available int
}

func (e *BoundsError) Error() string {
	return "n2k: requested " + itoa(e.Requested) + " bits, " + itoa(e.Available) + " available"
}

func (e *BoundsError) Unwrap() error { return ErrBitOutOfBounds }

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Codec errors (4.D).
var (
	// ErrInvalidBitLength is returned when a field descriptor has no bit
	// length where its kind needs one, or violates a kind-specific
	// constraint (e.g. a StringFix field whose bit length isn't a multiple
	// of eight). A buffer too short for a field is reported as a
	// BoundsError instead.
	ErrInvalidBitLength = errors.New("n2k: invalid bit length for field")
	// ErrUnsupportedFieldKind is returned for a FieldKind the engine has no
	// decoding rule for (Unimplemented, or a kind reserved for future use).
	ErrUnsupportedFieldKind = errors.New("n2k: unsupported field kind")
	// ErrFieldNotFound is returned by Serialize when FieldAccess.Field (or
	// RepetitiveField) returns false for a descriptor-listed field.
	ErrFieldNotFound = errors.New("n2k: field not found")
	// ErrFieldAssignmentFailed is returned by Deserialize when
	// FieldAccess.FieldMut (or RepetitiveFieldMut) rejects a decoded value.
	ErrFieldAssignmentFailed = errors.New("n2k: field assignment failed")
	// ErrDataTypeMismatch names a PgnValue variant that does not match what a
	// field's kind requires. The codec engine does not return it: a
	// FieldMut that rejects a value surfaces as ErrFieldAssignmentFailed.
	ErrDataTypeMismatch = errors.New("n2k: value type mismatch")
)

// FieldError wraps a codec error with the offending field id, per 4.D's
// "Any read error maps to a deserialization error carrying the offending
// field id" contract.
type FieldError struct {
	FieldID string
	Err     error
}

func (e *FieldError) Error() string {
	return "n2k: field " + e.FieldID + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// Transport errors (Fast Packet + CAN bus I/O).
var (
	// ErrSendFailed wraps a bus-specific send failure. The underlying
	// collaborator error is always available via errors.Unwrap.
	ErrSendFailed = errors.New("n2k: send failed")
	// ErrReceiveFailed wraps a bus-specific receive failure.
	ErrReceiveFailed = errors.New("n2k: receive failed")
	// ErrInvalidFrame names a frame that cannot be a valid Fast Packet
	// fragment (e.g. shorter than 2 bytes). FastPacketAssembler does not
	// return it; it reports such frames as Ignored.
	ErrInvalidFrame = errors.New("n2k: invalid incoming frame")
	// ErrInvalidDataLength names a Fast Packet whose declared total length
	// is outside [8, 223]. FastPacketAssembler does not return it; it
	// reports such frames as Ignored.
	ErrInvalidDataLength = errors.New("n2k: invalid data length")
)

// Claim errors (4.H).
var (
	// ErrNetworkConflict names an address-claim conflict. Claim resolves
	// conflicts as state transitions and does not return it.
	ErrNetworkConflict = errors.New("n2k: address claim conflict")
	// ErrNoAddressAvailable is returned when the candidate address
	// iterator is exhausted without a successful claim.
	ErrNoAddressAvailable = errors.New("n2k: no address available")
)

// High-level send errors (address manager).
var (
	// ErrSerializationFailed wraps a codec failure encountered while
	// building a PGN payload for transmission.
	ErrSerializationFailed = errors.New("n2k: serialization failed")
	// ErrIdentifierBuildFailed wraps a CAN identifier construction failure
	// encountered while transmitting.
	ErrIdentifierBuildFailed = errors.New("n2k: identifier build failed")
)

// AddressNull is the null address (254), assigned when a non-AAC node loses
// arbitration and cannot claim any address.
const AddressNull uint8 = 254

// AddressGlobal is the broadcast destination/source address (255).
const AddressGlobal uint8 = 255
