package ingress

import (
	"fmt"
	"math/big"
)

// Uniswap V3 tick bounds (spec §4.9).
const (
	MinTick = -887272
	MaxTick = 887272
)

// MaxDecimals is the semantic ceiling on token decimals (spec §4.9).
const MaxDecimals = 30

// RawSwapInput is step 1's input: a venue adapter's parsed representation
// of an on-chain swap log, prior to any TLV construction.
type RawSwapInput struct {
	PoolAddr     [20]byte
	Amount0Delta *big.Int
	Amount1Delta *big.Int
	Tick         int32
	SqrtPriceX96 *big.Int
	TimestampNs  uint64
	Decimals0    uint8
	Decimals1    uint8
}

func isZeroAddr(a [20]byte) bool {
	for _, b := range a {
		if b != 0 {
			return false
		}
	}
	return true
}

// validateSemantic is step 1 (spec §4.9): required-field and range checks
// against the declared value space, before any TLV is built.
func validateSemantic(raw RawSwapInput) error {
	if isZeroAddr(raw.PoolAddr) {
		return errSemanticRange("pool_addr", "zero address")
	}
	if raw.Tick < MinTick || raw.Tick > MaxTick {
		return errSemanticRange("tick", fmt.Sprintf("%d", raw.Tick))
	}
	if raw.SqrtPriceX96 == nil || raw.SqrtPriceX96.Sign() == 0 {
		return errSemanticRange("sqrt_price_x96", "zero")
	}
	if raw.Amount0Delta == nil || raw.Amount1Delta == nil {
		return errSemanticRange("amount_delta", "nil")
	}
	if raw.Amount0Delta.Sign() == 0 && raw.Amount1Delta.Sign() == 0 {
		return errSemanticRange("amount_delta", "both deltas zero")
	}
	if raw.Decimals0 > MaxDecimals {
		return errSemanticRange("decimals0", fmt.Sprintf("%d", raw.Decimals0))
	}
	if raw.Decimals1 > MaxDecimals {
		return errSemanticRange("decimals1", fmt.Sprintf("%d", raw.Decimals1))
	}
	return nil
}
