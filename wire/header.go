package wire

import (
	"encoding/binary"
	"hash/crc32"
)

// Magic is the constant magic number every header begins with (spec §3.1).
const Magic uint32 = 0xDEADBEEF

// Version is the current supported Protocol V2 wire version.
const Version uint8 = 1

// HeaderSize is the fixed header length in bytes.
const HeaderSize = 32

// MaxPayloadSize is the absolute per-message ceiling (spec §3.1, §4.2);
// per-domain ValidationConfig limits (spec §6.4) are always <= this.
const MaxPayloadSize = 1_048_576

// MessageHeader is the fixed 32-byte header preceding every message's TLV
// payload (spec §3.1). It is a value type: producers build it, relays
// forward the underlying bytes without re-parsing into structs on the hot
// path wherever possible.
type MessageHeader struct {
	Magic        uint32
	Version      uint8
	RelayDomain  RelayDomain
	Source       SourceType
	Sequence     uint64
	TimestampNs  uint64
	PayloadSize  uint32
	Checksum     uint32
}

// PutBytes serializes h into dst, which must be at least HeaderSize bytes.
// The checksum field is written as-is (callers needing a computed checksum
// must call ComputeChecksum first and set h.Checksum before calling this,
// or use BuildMessage).
func (h MessageHeader) PutBytes(dst []byte) {
	_ = dst[:HeaderSize] // bounds check hint, mirrors teacher's unaligned-write style
	binary.LittleEndian.PutUint32(dst[0:4], h.Magic)
	dst[4] = h.Version
	dst[5] = byte(h.RelayDomain)
	binary.LittleEndian.PutUint16(dst[6:8], uint16(h.Source))
	binary.LittleEndian.PutUint64(dst[8:16], h.Sequence)
	binary.LittleEndian.PutUint64(dst[16:24], h.TimestampNs)
	binary.LittleEndian.PutUint32(dst[24:28], h.PayloadSize)
	binary.LittleEndian.PutUint32(dst[28:32], h.Checksum)
}

// ParseHeader decodes the fixed 32-byte header. It validates the magic
// number, the version, the relay domain, and the source type, but does
// NOT validate the checksum (that is domain-policy-dependent — see
// validation.Validator).
func ParseHeader(b []byte) (MessageHeader, error) {
	if len(b) < HeaderSize {
		return MessageHeader{}, errMessageTooSmall(HeaderSize, len(b), "header")
	}
	magic := binary.LittleEndian.Uint32(b[0:4])
	if magic != Magic {
		return MessageHeader{}, errInvalidMagic(Magic, magic)
	}
	version := b[4]
	if version != Version {
		return MessageHeader{}, errUnsupportedVersion(version)
	}
	domain, err := ParseRelayDomain(b[5])
	if err != nil {
		return MessageHeader{}, err
	}
	rawSource := binary.LittleEndian.Uint16(b[6:8])
	source, err := ParseSourceType(rawSource)
	if err != nil {
		return MessageHeader{}, err
	}
	sequence := binary.LittleEndian.Uint64(b[8:16])
	timestampNs := binary.LittleEndian.Uint64(b[16:24])
	payloadSize := binary.LittleEndian.Uint32(b[24:28])
	if payloadSize > MaxPayloadSize {
		return MessageHeader{}, errPayloadTooLarge(int(payloadSize))
	}
	checksum := binary.LittleEndian.Uint32(b[28:32])

	return MessageHeader{
		Magic:       magic,
		Version:     version,
		RelayDomain: domain,
		Source:      source,
		Sequence:    sequence,
		TimestampNs: timestampNs,
		PayloadSize: payloadSize,
		Checksum:    checksum,
	}, nil
}

// ComputeChecksum computes the CRC32 (IEEE) over the full message
// (header-with-checksum-zeroed followed by payload), per spec §3.1 and the
// boundary behavior in §8.2: the checksum field in the input is excluded by
// construction, regardless of what bytes were already sitting in it.
func ComputeChecksum(header MessageHeader, payload []byte) uint32 {
	var hdr [HeaderSize]byte
	zeroed := header
	zeroed.Checksum = 0
	zeroed.PutBytes(hdr[:])

	crc := crc32.NewIEEE()
	_, _ = crc.Write(hdr[:])
	_, _ = crc.Write(payload)
	return crc.Sum32()
}

// VerifyChecksum recomputes the checksum and compares it to h.Checksum.
func VerifyChecksum(h MessageHeader, payload []byte) bool {
	return ComputeChecksum(h, payload) == h.Checksum
}
