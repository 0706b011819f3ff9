package wire

// Builder accumulates TLVs into a single payload buffer before a message is
// built. It is the multi-TLV counterpart to the single-TLV BuildTLVMessage
// hot path (spec §4.2 "builder-collected sequence").
type Builder struct {
	domain RelayDomain
	buf    []byte
}

// NewBuilder starts a payload builder for the given domain, backed by a
// pre-sized buffer drawn from the pool tier matching hintCap.
func NewBuilder(domain RelayDomain, hintCap int) *Builder {
	return &Builder{domain: domain, buf: AcquireBuffer(hintCap)}
}

// Add appends one TLV (standard or extended, chosen by value length),
// rejecting a type that does not belong to this builder's domain (spec
// §3.3: "domain of the first TLV must equal the header's relay_domain";
// generalized here to every TLV in a single-domain payload).
func (b *Builder) Add(tlvType uint8, value []byte) error {
	if d, ok := DomainFromTLVType(tlvType); ok && d != b.domain {
		return errMixedDomainPayload(tlvType, uint8(b.domain))
	}
	buf, err := EncodeTLV(b.buf, tlvType, value)
	if err != nil {
		return err
	}
	b.buf = buf
	return nil
}

// Payload returns the accumulated bytes. The slice aliases the builder's
// backing buffer, which Release hands back to its pool tier.
func (b *Builder) Payload() []byte { return b.buf }

// Release returns the builder's backing buffer to its pool tier.
func (b *Builder) Release() { ReleaseBuffer(b.buf) }

// BuildMessage assembles a complete wire message: header (with placeholder
// checksum) followed by payload, then back-patches the CRC32 checksum
// (spec §4.2 build path). The returned slice is owned by the caller.
func BuildMessage(domain RelayDomain, source SourceType, sequence, timestampNs uint64, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, errPayloadTooLarge(len(payload))
	}
	header := MessageHeader{
		Magic:       Magic,
		Version:     Version,
		RelayDomain: domain,
		Source:      source,
		Sequence:    sequence,
		TimestampNs: timestampNs,
		PayloadSize: uint32(len(payload)),
	}
	out := AcquireBuffer(HeaderSize + len(payload))
	out = out[:HeaderSize+len(payload)]
	header.PutBytes(out[:HeaderSize])
	copy(out[HeaderSize:], payload)

	header.Checksum = ComputeChecksum(header, payload)
	header.PutBytes(out[:HeaderSize])
	return out, nil
}

// BuildTLVMessage is the hot-path single-TLV builder: it never collects an
// intermediate payload slice for the TLV sequence, it writes the TLV
// directly after the header.
func BuildTLVMessage(domain RelayDomain, source SourceType, sequence, timestampNs uint64, tlvType uint8, value []byte) ([]byte, error) {
	if d, ok := DomainFromTLVType(tlvType); ok && d != domain {
		return nil, errMixedDomainPayload(tlvType, uint8(domain))
	}
	tlvHeaderLen := 2
	if len(value) > 255 {
		tlvHeaderLen = 4
	}
	payloadLen := tlvHeaderLen + len(value)
	if payloadLen > MaxPayloadSize {
		return nil, errPayloadTooLarge(payloadLen)
	}

	header := MessageHeader{
		Magic: Magic, Version: Version, RelayDomain: domain, Source: source,
		Sequence: sequence, TimestampNs: timestampNs, PayloadSize: uint32(payloadLen),
	}
	out := AcquireBuffer(HeaderSize + payloadLen)
	out = out[:HeaderSize]
	header.PutBytes(out[:HeaderSize])

	out, err := EncodeTLV(out, tlvType, value)
	if err != nil {
		ReleaseBuffer(out)
		return nil, err
	}

	header.Checksum = ComputeChecksum(header, out[HeaderSize:])
	header.PutBytes(out[:HeaderSize])
	return out, nil
}

// ParseMessage decodes the header and returns a borrowed view of the
// payload. It rejects input shorter than header plus payload_size; the
// returned payload is exactly payload_size bytes, and any bytes after it
// are ignored.
func ParseMessage(b []byte) (MessageHeader, []byte, error) {
	header, err := ParseHeader(b)
	if err != nil {
		return MessageHeader{}, nil, err
	}
	need := HeaderSize + int(header.PayloadSize)
	if len(b) < need {
		return MessageHeader{}, nil, errMessageTooSmall(need, len(b), "message")
	}
	return header, b[HeaderSize:need], nil
}
