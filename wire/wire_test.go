package wire

import "testing"

func TestHeaderRoundtrip(t *testing.T) {
	h := MessageHeader{
		Magic: Magic, Version: Version, RelayDomain: DomainMarketData,
		Source: SourceKrakenCollector, Sequence: 1, TimestampNs: 1_700_000_000_000_000_000,
		PayloadSize: 42,
	}
	var buf [HeaderSize]byte
	h.PutBytes(buf[:])
	got, err := ParseHeader(buf[:])
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	got.Checksum = 0
	if got != h {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", got, h)
	}
}

func TestInvalidMagic(t *testing.T) {
	var buf [HeaderSize]byte
	h := MessageHeader{Magic: 0x12345678, Version: Version, RelayDomain: DomainMarketData, Source: SourceKrakenCollector}
	h.PutBytes(buf[:])
	if _, err := ParseHeader(buf[:]); err == nil {
		t.Fatal("expected InvalidMagic error")
	}
}

func TestInvalidSourceTypeReportsFullValue(t *testing.T) {
	_, err := ParseSourceType(1000)
	if err == nil {
		t.Fatal("expected InvalidSourceType error")
	}
	pe, ok := err.(*ProtocolError)
	if !ok {
		t.Fatalf("error type = %T, want *ProtocolError", err)
	}
	if pe.Value != 1000 {
		t.Fatalf("Value = %d, want 1000 (must not truncate to uint8)", pe.Value)
	}
	if got := err.Error(); got != "wire: invalid source type: 1000" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestPayloadTooLarge(t *testing.T) {
	var buf [HeaderSize]byte
	h := MessageHeader{Magic: Magic, Version: Version, RelayDomain: DomainMarketData, Source: SourceKrakenCollector, PayloadSize: MaxPayloadSize + 1}
	h.PutBytes(buf[:])
	if _, err := ParseHeader(buf[:]); err == nil {
		t.Fatal("expected PayloadTooLarge at MAX+1")
	}
	h.PayloadSize = MaxPayloadSize
	h.PutBytes(buf[:])
	if _, err := ParseHeader(buf[:]); err != nil {
		t.Fatalf("expected MAX to be accepted, got %v", err)
	}
}

// TestS1SingleTrade mirrors spec §8.3 scenario S1.
func TestS1SingleTrade(t *testing.T) {
	tradeValue := make([]byte, 40)
	msg, err := BuildTLVMessage(DomainMarketData, SourceKrakenCollector, 1, 1_700_000_000_000_000_000, 1, tradeValue)
	if err != nil {
		t.Fatalf("BuildTLVMessage: %v", err)
	}
	if len(msg) != 74 {
		t.Fatalf("total bytes = %d, want 74", len(msg))
	}
	header, payload, err := ParseMessage(msg)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if header.PayloadSize != 42 {
		t.Fatalf("payload_size = %d, want 42", header.PayloadSize)
	}
	if !VerifyChecksum(header, payload) {
		t.Fatal("checksum should verify")
	}
}

// TestS2ChecksumCorruption mirrors spec §8.3 scenario S2.
func TestS2ChecksumCorruption(t *testing.T) {
	value := make([]byte, 48)
	msg, err := BuildTLVMessage(DomainSignal, SourceArbitrageStrategy, 1, 1000, 20, value)
	if err != nil {
		t.Fatalf("BuildTLVMessage: %v", err)
	}
	// Flip a payload bit.
	msg[HeaderSize+5] ^= 0xFF
	header, payload, err := ParseMessage(msg)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if VerifyChecksum(header, payload) {
		t.Fatal("checksum should NOT verify after corruption")
	}
}

func TestChecksumFidelitySingleBitFlip(t *testing.T) {
	value := []byte("hello world, this is a trade payload of some length")
	msg, err := BuildTLVMessage(DomainMarketData, SourceKrakenCollector, 1, 1, 1, value)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	header, payload, err := ParseMessage(msg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	base := ComputeChecksum(header, payload)
	for bit := 0; bit < len(payload)*8; bit++ {
		flipped := append([]byte(nil), payload...)
		flipped[bit/8] ^= 1 << uint(bit%8)
		if ComputeChecksum(header, flipped) == base {
			t.Fatalf("single bit flip at bit %d did not change checksum", bit)
		}
	}
}

// TestChecksumFieldZeroedDuringComputation covers spec §8.2's boundary case:
// a non-zero checksum field in the input bytes must not affect the
// computed checksum.
func TestChecksumFieldZeroedDuringComputation(t *testing.T) {
	h := MessageHeader{Magic: Magic, Version: Version, RelayDomain: DomainMarketData, Source: SourceKrakenCollector, PayloadSize: 4}
	payload := []byte{1, 2, 3, 4}
	h.Checksum = 0
	want := ComputeChecksum(h, payload)
	h.Checksum = 0xFFFFFFFF
	got := ComputeChecksum(h, payload)
	if got != want {
		t.Fatalf("checksum depends on stale checksum field: got 0x%08X want 0x%08X", got, want)
	}
}

func TestTLVStandardRoundtrip(t *testing.T) {
	value := []byte{10, 20, 30}
	buf, err := EncodeTLV(nil, 5, value)
	if err != nil {
		t.Fatalf("EncodeTLV: %v", err)
	}
	if len(buf) != 2+len(value) {
		t.Fatalf("encoded len = %d, want %d", len(buf), 2+len(value))
	}
	tlvs, err := ParseTLVs(buf)
	if err != nil {
		t.Fatalf("ParseTLVs: %v", err)
	}
	if len(tlvs) != 1 || tlvs[0].Type != 5 || tlvs[0].Extended {
		t.Fatalf("unexpected tlv: %+v", tlvs)
	}
	if string(tlvs[0].Value) != string(value) {
		t.Fatalf("value mismatch")
	}
}

// TestS6ExtendedTLV mirrors spec §8.3 scenario S6.
func TestS6ExtendedTLV(t *testing.T) {
	value := make([]byte, 400)
	for i := range value {
		value[i] = byte(i)
	}
	buf, err := EncodeTLV(nil, 7, value) // PoolLiquidity
	if err != nil {
		t.Fatalf("EncodeTLV: %v", err)
	}
	if buf[0] != ExtendedMarker {
		t.Fatalf("expected extended marker, got %d", buf[0])
	}
	tlvs, err := ParseTLVs(buf)
	if err != nil {
		t.Fatalf("ParseTLVs: %v", err)
	}
	if len(tlvs) != 1 || !tlvs[0].Extended || tlvs[0].Type != 7 || len(tlvs[0].Value) != 400 {
		t.Fatalf("unexpected extended tlv: type=%d extended=%v len=%d", tlvs[0].Type, tlvs[0].Extended, len(tlvs[0].Value))
	}
}

func TestZeroLengthTLV(t *testing.T) {
	// Variable-size type: zero length accepted.
	buf, err := EncodeTLV(nil, 3, nil) // OrderBook, Variable
	if err != nil {
		t.Fatalf("EncodeTLV: %v", err)
	}
	tlvs, err := ParseTLVs(buf)
	if err != nil || len(tlvs) != 1 {
		t.Fatalf("expected 1 tlv, err=%v", err)
	}
	info, _ := Lookup(3)
	if !info.Size.Satisfies(0) {
		t.Fatal("variable type should accept zero length")
	}
	fixedInfo, _ := Lookup(1) // Trade, Fixed(40)
	if fixedInfo.Size.Satisfies(0) {
		t.Fatal("fixed type should reject zero length")
	}
}

func TestTruncatedTLV(t *testing.T) {
	buf := []byte{5, 10, 1, 2} // claims 10 bytes of value, only has 2
	if _, err := ParseTLVs(buf); err == nil {
		t.Fatal("expected TruncatedTLV error")
	}
}

func TestDomainFromTLVType(t *testing.T) {
	cases := []struct {
		t    uint8
		want RelayDomain
		ok   bool
	}{
		{1, DomainMarketData, true},
		{19, DomainMarketData, true},
		{20, DomainSignal, true},
		{39, DomainSignal, true},
		{60, DomainSignal, true},
		{79, DomainSignal, true},
		{40, DomainExecution, true},
		{59, DomainExecution, true},
		{80, DomainSystem, true},
		{119, DomainSystem, true},
		{120, 0, false},
		{254, 0, false},
	}
	for _, c := range cases {
		d, ok := DomainFromTLVType(c.t)
		if ok != c.ok || (ok && d != c.want) {
			t.Errorf("DomainFromTLVType(%d) = (%v, %v), want (%v, %v)", c.t, d, ok, c.want, c.ok)
		}
	}
}

func TestMixedDomainRejected(t *testing.T) {
	// Type 20 (ArbitrageSignal) belongs to Signal domain; building under
	// MarketData domain must fail (spec §3.3).
	if _, err := BuildTLVMessage(DomainMarketData, SourceKrakenCollector, 1, 1, 20, []byte{1, 2}); err == nil {
		t.Fatal("expected mixed-domain rejection")
	}
}
