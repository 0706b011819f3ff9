package wire

// ExtendedMarker is the reserved TLV type byte that triggers extended
// header parsing (spec §3.2).
const ExtendedMarker uint8 = 255

// TLV is a single decoded type-length-value record. Value is always a
// zero-copy slice into the original payload buffer.
type TLV struct {
	Type     uint8
	Extended bool
	Offset   int // offset of the start of this record's header within the payload
	Value    []byte
}

// EncodeTLV appends a single TLV (standard or extended, chosen by length)
// encoding of (tlvType, value) onto dst and returns the result.
func EncodeTLV(dst []byte, tlvType uint8, value []byte) ([]byte, error) {
	if tlvType == ExtendedMarker {
		return nil, errUnknownTLVType(tlvType)
	}
	if len(value) <= 255 {
		dst = append(dst, tlvType, byte(len(value)))
		dst = append(dst, value...)
		return dst, nil
	}
	if len(value) > 65535 {
		return nil, errPayloadTooLarge(len(value))
	}
	dst = append(dst, ExtendedMarker, 0, tlvType, byte(len(value)), byte(len(value)>>8))
	dst = append(dst, value...)
	return dst, nil
}

// ParseTLVs iterates every TLV in payload, yielding Standard and Extended
// records with values borrowed (zero-copy) from payload. It returns an
// error on truncation; it does not itself enforce size constraints or
// domain membership — that is the Validator's job (spec §4.4).
func ParseTLVs(payload []byte) ([]TLV, error) {
	var out []TLV
	c := newCursor(payload)
	for c.remaining() > 0 {
		offset := c.pos
		t, err := c.readU8()
		if err != nil {
			return nil, err
		}
		if t != ExtendedMarker {
			length, err := c.readU8()
			if err != nil {
				return nil, err
			}
			value, err := c.readExact(int(length))
			if err != nil {
				return nil, err
			}
			out = append(out, TLV{Type: t, Extended: false, Offset: offset, Value: value})
			continue
		}
		if _, err := c.readU8(); err != nil { // reserved byte
			return nil, err
		}
		realType, err := c.readU8()
		if err != nil {
			return nil, err
		}
		realLength, err := c.readU16LE()
		if err != nil {
			return nil, err
		}
		value, err := c.readExact(int(realLength))
		if err != nil {
			return nil, err
		}
		out = append(out, TLV{Type: realType, Extended: true, Offset: offset, Value: value})
	}
	return out, nil
}
