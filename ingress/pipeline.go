package ingress

import (
	"torq.dev/core/wire"
)

// TLVTypePoolSwap is the registered type number for the PoolSwap TLV
// (wire.Registry entry, type 4, domain MarketData).
const TLVTypePoolSwap uint8 = 4

// Report is the result of a successful run: the round-tripped event and
// the built TLV bytes a producer may now deliver to a relay.
type Report struct {
	Decoded PoolSwapEvent
	TLV     []byte
}

// FourStepValidate runs the full adapter ingress contract (spec §4.9) over
// a single swap observation: semantic range checks, TLV construction,
// roundtrip decode, and field-by-field deep equality. Any failing step
// returns a non-nil error and the producer must not deliver the message.
func FourStepValidate(raw RawSwapInput) (*Report, error) {
	// Step 1 — raw-to-semantic validation.
	if err := validateSemantic(raw); err != nil {
		return nil, err
	}

	original := PoolSwapEvent{
		PoolAddr:     raw.PoolAddr,
		Amount0Delta: raw.Amount0Delta,
		Amount1Delta: raw.Amount1Delta,
		Tick:         raw.Tick,
		SqrtPriceX96: raw.SqrtPriceX96,
		TimestampNs:  raw.TimestampNs,
	}

	// Step 2 — TLV build validation: construct, then confirm the declared
	// length equals what was actually serialized.
	value, err := encodeSwapEvent(original)
	if err != nil {
		return nil, errBuildLengthMismatch(err.Error())
	}
	tlvBytes, err := wire.EncodeTLV(nil, TLVTypePoolSwap, value)
	if err != nil {
		return nil, errBuildLengthMismatch(err.Error())
	}
	parsed, err := wire.ParseTLVs(tlvBytes)
	if err != nil || len(parsed) != 1 {
		return nil, errBuildLengthMismatch("re-parse of freshly built TLV failed")
	}
	if len(parsed[0].Value) != len(value) {
		return nil, errBuildLengthMismatch("declared length does not equal serialized length")
	}

	// Step 3 — roundtrip validation: deserialize the bytes back.
	decoded, err := decodeSwapEvent(parsed[0].Value)
	if err != nil {
		return nil, errRoundtripDecode(err.Error())
	}

	// Step 4 — deep-equality validation: original must equal round-tripped,
	// field by field.
	if err := deepEqualSwapEvent(original, decoded); err != nil {
		return nil, err
	}

	return &Report{Decoded: decoded, TLV: tlvBytes}, nil
}

func deepEqualSwapEvent(a, b PoolSwapEvent) error {
	if a.PoolAddr != b.PoolAddr {
		return errDeepEquality("pool_addr", "mismatch")
	}
	if a.Amount0Delta.Cmp(b.Amount0Delta) != 0 {
		return errDeepEquality("amount0_delta", "mismatch")
	}
	if a.Amount1Delta.Cmp(b.Amount1Delta) != 0 {
		return errDeepEquality("amount1_delta", "mismatch")
	}
	if a.Tick != b.Tick {
		return errDeepEquality("tick", "mismatch")
	}
	if a.SqrtPriceX96.Cmp(b.SqrtPriceX96) != 0 {
		return errDeepEquality("sqrt_price_x96", "mismatch")
	}
	if a.TimestampNs != b.TimestampNs {
		return errDeepEquality("timestamp_ns", "mismatch")
	}
	return nil
}
