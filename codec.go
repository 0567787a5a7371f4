package n2k

import "math"

// Deserialize reads payload according to descriptor and assigns every
// decoded field into dest via the FieldAccess capability (4.D).
//
// Non-repeating fields are assigned first, in descriptor order, skipping any
// field that belongs to a RepeatingFieldSet. Each repeating group is then
// read: its counter field is read back from dest (it must already have been
// assigned in the first pass), clamped to MaxRepetitions, and the group's
// fields are read element by element.
func Deserialize(dest FieldAccess, payload []byte, descriptor *PgnDescriptor) error {
	r := NewBitReader(payload)

	for i := range descriptor.Fields {
		if descriptor.IsRepetitiveField(i) {
			continue
		}
		fd := &descriptor.Fields[i]
		value, assign, err := readFieldValue(r, fd)
		if err != nil {
			return &FieldError{FieldID: fd.ID, Err: err}
		}
		if !assign {
			continue // Reserved/Spare: cursor advanced, no value to assign
		}
		if !dest.FieldMut(fd.ID, value) {
			return &FieldError{FieldID: fd.ID, Err: ErrFieldAssignmentFailed}
		}
	}

	for _, rfs := range descriptor.RepeatingFieldSets {
		if rfs.CountFieldIndex == nil {
			return &FieldError{FieldID: rfs.ArrayID, Err: ErrFieldNotFound}
		}
		counterFD := &descriptor.Fields[*rfs.CountFieldIndex]
		counterValue, ok := dest.Field(counterFD.ID)
		if !ok {
			return &FieldError{FieldID: counterFD.ID, Err: ErrFieldNotFound}
		}
		count := int(counterValue.AsUint64())
		if count > rfs.MaxRepetitions {
			count = rfs.MaxRepetitions
		}
		if !dest.SetRepetitiveCount(rfs.ArrayID, count) {
			return &FieldError{FieldID: rfs.ArrayID, Err: ErrFieldAssignmentFailed}
		}

		for elem := 0; elem < count; elem++ {
			for offset := 0; offset < rfs.Size; offset++ {
				fd := &descriptor.Fields[rfs.StartFieldIndex+offset]
				value, assign, err := readFieldValue(r, fd)
				if err != nil {
					return &FieldError{FieldID: fd.ID, Err: err}
				}
				if !assign {
					continue
				}
				if !dest.RepetitiveFieldMut(rfs.ArrayID, elem, fd.ID, value) {
					return &FieldError{FieldID: fd.ID, Err: ErrFieldAssignmentFailed}
				}
			}
		}
	}
	return nil
}

// Serialize writes src's fields into buf according to descriptor, first
// seeding buf with the reserved-bit pattern (all ones) so Reserved fields
// yield the correct wire value without an explicit write (4.D). It returns
// the number of bytes written (bit cursor rounded up to a byte).
func Serialize(src FieldAccess, buf []byte, descriptor *PgnDescriptor) (int, error) {
	for i := range buf {
		buf[i] = 0xFF
	}
	w := NewBitWriter(buf)

	for i := range descriptor.Fields {
		if descriptor.IsRepetitiveField(i) {
			continue
		}
		fd := &descriptor.Fields[i]
		value, ok := src.Field(fd.ID)
		if !ok {
			return 0, &FieldError{FieldID: fd.ID, Err: ErrFieldNotFound}
		}
		if err := writeFieldValue(w, fd, value); err != nil {
			return 0, &FieldError{FieldID: fd.ID, Err: err}
		}
	}

	for _, rfs := range descriptor.RepeatingFieldSets {
		count, ok := src.RepetitiveCount(rfs.ArrayID)
		if !ok {
			count = 0
		}
		if count > rfs.MaxRepetitions {
			count = rfs.MaxRepetitions
		}
		for elem := 0; elem < count; elem++ {
			for offset := 0; offset < rfs.Size; offset++ {
				fd := &descriptor.Fields[rfs.StartFieldIndex+offset]
				value, ok := src.RepetitiveField(rfs.ArrayID, elem, fd.ID)
				if !ok {
					return 0, &FieldError{FieldID: fd.ID, Err: ErrFieldNotFound}
				}
				if err := writeFieldValue(w, fd, value); err != nil {
					return 0, &FieldError{FieldID: fd.ID, Err: err}
				}
			}
		}
	}
	return (w.Cursor() + 7) / 8, nil
}

func bitsLength(fd *FieldDescriptor) (int, error) {
	if fd.BitsLength == nil {
		return 0, ErrInvalidBitLength
	}
	return int(*fd.BitsLength), nil
}

func isSigned(fd *FieldDescriptor) bool {
	return fd.IsSigned != nil && *fd.IsSigned
}

// signExtend sign-extends the low width bits of raw to a full 64-bit two's
// complement value (4.D "Sign extension").
func signExtend(raw uint64, width int) int64 {
	if width >= 64 {
		return int64(raw)
	}
	signBit := uint64(1) << uint(width-1)
	if raw&signBit != 0 {
		raw |= ^uint64(0) << uint(width)
	}
	return int64(raw)
}

func smallestUnsigned(width int, raw uint64) PgnValue {
	switch {
	case width <= 8:
		return U8Value(uint8(raw))
	case width <= 16:
		return U16Value(uint16(raw))
	case width <= 32:
		return U32Value(uint32(raw))
	default:
		return U64Value(raw)
	}
}

func smallestSigned(width int, raw uint64) PgnValue {
	signed := signExtend(raw, width)
	switch {
	case width <= 8:
		return I8Value(int8(signed))
	case width <= 16:
		return I16Value(int16(signed))
	case width <= 32:
		return I32Value(int32(signed))
	default:
		return I64Value(signed)
	}
}

func scaledFloat(width int, raw uint64, signed bool, resolution float32) PgnValue {
	var v float64
	if signed {
		v = float64(signExtend(raw, width)) * float64(resolution)
	} else {
		v = float64(raw) * float64(resolution)
	}
	if width <= 32 {
		return F32Value(float32(v))
	}
	return F64Value(v)
}

// readFieldValue decodes one field per Table 1 (4.D). assign is false for
// Reserved/Spare, where the cursor advances but no value is produced.
func readFieldValue(r *BitReader, fd *FieldDescriptor) (value PgnValue, assign bool, err error) {
	switch fd.Kind {
	case FieldNumber, FieldPgn, FieldLookup, FieldIndirectLookup:
		width, err := bitsLength(fd)
		if err != nil {
			return PgnValue{}, false, err
		}
		raw, err := r.ReadUint(width)
		if err != nil {
			return PgnValue{}, false, err
		}
		signed := isSigned(fd)
		if fd.Resolution != nil {
			return scaledFloat(width, raw, signed, *fd.Resolution), true, nil
		}
		if signed {
			return smallestSigned(width, raw), true, nil
		}
		return smallestUnsigned(width, raw), true, nil

	case FieldBitLookup:
		width, err := bitsLength(fd)
		if err != nil {
			return PgnValue{}, false, err
		}
		raw, err := r.ReadUint(width)
		if err != nil {
			return PgnValue{}, false, err
		}
		return smallestUnsigned(width, raw), true, nil

	case FieldReserved, FieldSpare:
		width, err := bitsLength(fd)
		if err != nil {
			return PgnValue{}, false, err
		}
		if err := r.Advance(width); err != nil {
			return PgnValue{}, false, err
		}
		return PgnValue{}, false, nil

	case FieldStringFix:
		width, err := bitsLength(fd)
		if err != nil {
			return PgnValue{}, false, err
		}
		if width%8 != 0 {
			return PgnValue{}, false, ErrInvalidBitLength
		}
		slice, err := r.ReadSlice(width / 8)
		if err != nil {
			return PgnValue{}, false, err
		}
		var pb PgnBytes
		pb.SetBytes(slice)
		return BytesValue(pb), true, nil

	case FieldStringLz:
		n, err := r.ReadU8(8)
		if err != nil {
			return PgnValue{}, false, err
		}
		slice, err := r.ReadSlice(int(n))
		if err != nil {
			return PgnValue{}, false, err
		}
		var pb PgnBytes
		pb.SetBytes(slice)
		return BytesValue(pb), true, nil

	case FieldStringLau:
		total, err := r.ReadU8(8)
		if err != nil {
			return PgnValue{}, false, err
		}
		slice, err := r.ReadSlice(int(total))
		if err != nil {
			return PgnValue{}, false, err
		}
		var pb PgnBytes
		pb.SetBytes(slice)
		return BytesValue(pb), true, nil

	case FieldBinary:
		width, err := bitsLength(fd)
		if err != nil {
			return PgnValue{}, false, err
		}
		if width%8 == 0 {
			slice, err := r.ReadSlice(width / 8)
			if err != nil {
				return PgnValue{}, false, err
			}
			var pb PgnBytes
			pb.SetBytes(slice)
			return BytesValue(pb), true, nil
		}
		raw, err := r.ReadUint(width)
		if err != nil {
			return PgnValue{}, false, err
		}
		return smallestUnsigned(width, raw), true, nil

	case FieldDate, FieldMmsi:
		width, err := bitsLength(fd)
		if err != nil {
			return PgnValue{}, false, err
		}
		raw, err := r.ReadUint(width)
		if err != nil {
			return PgnValue{}, false, err
		}
		if fd.Resolution != nil {
			return scaledFloat(width, raw, false, *fd.Resolution), true, nil
		}
		return smallestUnsigned(width, raw), true, nil

	case FieldTime, FieldDuration:
		width, err := bitsLength(fd)
		if err != nil {
			return PgnValue{}, false, err
		}
		raw, err := r.ReadUint(width)
		if err != nil {
			return PgnValue{}, false, err
		}
		if fd.Resolution != nil {
			return scaledFloat(width, raw, isSigned(fd), *fd.Resolution), true, nil
		}
		if isSigned(fd) {
			return smallestSigned(width, raw), true, nil
		}
		return smallestUnsigned(width, raw), true, nil

	case FieldIsoName:
		width, err := bitsLength(fd)
		if err != nil {
			return PgnValue{}, false, err
		}
		raw, err := r.ReadUint(width)
		if err != nil {
			return PgnValue{}, false, err
		}
		return U64Value(raw), true, nil

	case FieldDecimal:
		width, err := bitsLength(fd)
		if err != nil {
			return PgnValue{}, false, err
		}
		if width%8 == 0 {
			slice, err := r.ReadSlice(width / 8)
			if err != nil {
				return PgnValue{}, false, err
			}
			var pb PgnBytes
			pb.SetBytes(slice)
			return BytesValue(pb), true, nil
		}
		raw, err := r.ReadUint(width)
		if err != nil {
			return PgnValue{}, false, err
		}
		return smallestUnsigned(width, raw), true, nil

	default:
		return PgnValue{}, false, ErrUnsupportedFieldKind
	}
}

func writeFieldValue(w *BitWriter, fd *FieldDescriptor, value PgnValue) error {
	switch fd.Kind {
	case FieldNumber, FieldPgn, FieldLookup, FieldIndirectLookup,
		FieldBitLookup, FieldDate, FieldMmsi, FieldTime, FieldDuration, FieldIsoName:
		width, err := bitsLength(fd)
		if err != nil {
			return err
		}
		if fd.Resolution != nil && (value.Kind() == PgnValueF32 || value.Kind() == PgnValueF64) {
			raw := int64(math.Trunc(value.AsFloat64() / float64(*fd.Resolution)))
			return w.WriteUint(uint64(raw), width)
		}
		return w.WriteUint(value.AsUint64(), width)

	case FieldReserved:
		width, err := bitsLength(fd)
		if err != nil {
			return err
		}
		return w.Advance(width)

	case FieldSpare:
		width, err := bitsLength(fd)
		if err != nil {
			return err
		}
		return w.WriteUint(0, width)

	case FieldStringFix:
		width, err := bitsLength(fd)
		if err != nil {
			return err
		}
		return writeFixedBytes(w, value.AsBytes(), width/8)

	case FieldStringLz:
		b := value.AsBytes()
		if err := w.WriteU8(uint8(b.Len()), 8); err != nil {
			return err
		}
		return w.WriteSlice(b.Bytes())

	case FieldStringLau:
		b := value.AsBytes()
		if err := w.WriteU8(uint8(b.Len()), 8); err != nil {
			return err
		}
		return w.WriteSlice(b.Bytes())

	case FieldBinary, FieldDecimal:
		width, err := bitsLength(fd)
		if err != nil {
			return err
		}
		if width%8 == 0 {
			return writeFixedBytes(w, value.AsBytes(), width/8)
		}
		return w.WriteUint(value.AsUint64(), width)

	default:
		return ErrUnsupportedFieldKind
	}
}

// writeFixedBytes writes exactly n bytes, zero-padding a short source value
// and truncating an overlong one.
func writeFixedBytes(w *BitWriter, b PgnBytes, n int) error {
	src := b.Bytes()
	if len(src) == n {
		return w.WriteSlice(src)
	}
	buf := make([]byte, n)
	copy(buf, src)
	return w.WriteSlice(buf)
}
