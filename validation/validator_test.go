package validation

import (
	"testing"

	"torq.dev/core/wire"
)

func TestValidateMarketDataChecksumOptional(t *testing.T) {
	msg, err := wire.BuildTLVMessage(wire.DomainMarketData, wire.SourceKrakenCollector, 1, 1000, 1, make([]byte, 40))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// Corrupt the checksum field directly; MarketData must still accept it.
	msg[wire.HeaderSize-1] ^= 0xFF
	v := New(Default(), wire.DomainMarketData)
	if _, err := v.Validate(msg, 1000); err != nil {
		t.Fatalf("MarketData should tolerate a bad checksum, got %v", err)
	}
}

func TestValidateSignalChecksumRequired(t *testing.T) {
	msg, err := wire.BuildTLVMessage(wire.DomainSignal, wire.SourceArbitrageStrategy, 1, 1000, 20, make([]byte, 48))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	msg[wire.HeaderSize+2] ^= 0xFF // corrupt payload after checksum computed
	v := New(Default(), wire.DomainSignal)
	if _, err := v.Validate(msg, 1000); err == nil {
		t.Fatal("Signal domain must reject a bad checksum")
	}
}

func TestValidateDomainMismatch(t *testing.T) {
	msg, err := wire.BuildTLVMessage(wire.DomainMarketData, wire.SourceKrakenCollector, 1, 1000, 1, make([]byte, 40))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	v := New(Default(), wire.DomainSignal)
	if _, err := v.Validate(msg, 1000); err == nil {
		t.Fatal("expected domain mismatch error")
	}
}

func TestValidateTimestampBounds(t *testing.T) {
	cfg := Default()
	producedAtNs := uint64(1_000_000_000_000)
	msg, err := wire.BuildTLVMessage(wire.DomainSignal, wire.SourceArbitrageStrategy, 1, producedAtNs, 20, make([]byte, 48))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	v := New(cfg, wire.DomainSignal)

	// Within bounds.
	if _, err := v.Validate(msg, producedAtNs+uint64(cfg.Timestamp.MaxAge.Nanoseconds())); err != nil {
		t.Fatalf("expected acceptance at max_age boundary, got %v", err)
	}
	// Too old.
	if _, err := v.Validate(msg, producedAtNs+uint64(cfg.Timestamp.MaxAge.Nanoseconds())+1); err == nil {
		t.Fatal("expected TimestampTooOld rejection")
	}
	// Too far in the future (nowNs before producedAtNs beyond drift).
	if _, err := v.Validate(msg, producedAtNs-uint64(cfg.Timestamp.MaxFutureDrift.Nanoseconds())-1); err == nil {
		t.Fatal("expected TimestampTooFarFuture rejection")
	}
}

func TestValidateMessageExceedsDomainLimit(t *testing.T) {
	cfg := Production() // market_data limit = 2048
	big := make([]byte, 2100)
	msg, err := wire.BuildTLVMessage(wire.DomainMarketData, wire.SourceKrakenCollector, 1, 1000, 3, big) // OrderBook, variable
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	v := New(cfg, wire.DomainMarketData)
	if _, err := v.Validate(msg, 1000); err == nil {
		t.Fatal("expected domain message-size limit rejection")
	}
}

func TestParseTLVsForDomainUnknownTypeStrict(t *testing.T) {
	// Type 45 is in the Execution range (40-59) but not registered.
	buf, err := wire.EncodeTLV(nil, 45, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("EncodeTLV: %v", err)
	}
	if _, err := ParseTLVsForDomain(buf, wire.DomainExecution, SemanticFull); err == nil {
		t.Fatal("expected unknown tlv type rejection under SemanticFull")
	}
	if _, err := ParseTLVsForDomain(buf, wire.DomainExecution, SemanticStructural); err != nil {
		t.Fatalf("expected tolerance under SemanticStructural, got %v", err)
	}
}

func TestParseTLVsForDomainSizeConstraint(t *testing.T) {
	buf, err := wire.EncodeTLV(nil, 1, []byte{1, 2, 3}) // Trade, Fixed(40), wrong length
	if err != nil {
		t.Fatalf("EncodeTLV: %v", err)
	}
	if _, err := ParseTLVsForDomain(buf, wire.DomainMarketData, SemanticMinimal); err == nil {
		t.Fatal("expected size constraint violation")
	}
}
