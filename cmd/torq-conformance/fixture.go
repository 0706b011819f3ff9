package main

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"torq.dev/core/ingress"
)

// swapFixture is the JSON-friendly mirror of ingress.RawSwapInput: hex
// strings and decimal strings stand in for [20]byte and *big.Int, which
// encoding/json cannot represent directly.
type swapFixture struct {
	PoolAddr     string `json:"pool_addr"`
	Amount0Delta string `json:"amount0_delta"`
	Amount1Delta string `json:"amount1_delta"`
	Tick         int32  `json:"tick"`
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	TimestampNs  uint64 `json:"timestamp_ns"`
	Decimals0    uint8  `json:"decimals0"`
	Decimals1    uint8  `json:"decimals1"`
}

func knownGoodFixture() swapFixture {
	return swapFixture{
		PoolAddr:     "00000000000000000000000000000000000000ab",
		Amount0Delta: "10",
		Amount1Delta: "-2380000",
		Tick:         100,
		SqrtPriceX96: "79228162514264337593543950336", // 2^96
		TimestampNs:  1_700_000_000_000_000_000,
		Decimals0:    18,
		Decimals1:    6,
	}
}

func (f swapFixture) toRaw() (ingress.RawSwapInput, error) {
	var raw ingress.RawSwapInput
	addrBytes, err := hex.DecodeString(f.PoolAddr)
	if err != nil || len(addrBytes) != 20 {
		return raw, fmt.Errorf("pool_addr: must be 40 hex chars (20 bytes), got %q", f.PoolAddr)
	}
	copy(raw.PoolAddr[:], addrBytes)

	amount0, ok := new(big.Int).SetString(f.Amount0Delta, 10)
	if !ok {
		return raw, fmt.Errorf("amount0_delta: invalid integer %q", f.Amount0Delta)
	}
	amount1, ok := new(big.Int).SetString(f.Amount1Delta, 10)
	if !ok {
		return raw, fmt.Errorf("amount1_delta: invalid integer %q", f.Amount1Delta)
	}
	sqrtPrice, ok := new(big.Int).SetString(f.SqrtPriceX96, 10)
	if !ok {
		return raw, fmt.Errorf("sqrt_price_x96: invalid integer %q", f.SqrtPriceX96)
	}

	raw.Amount0Delta = amount0
	raw.Amount1Delta = amount1
	raw.Tick = f.Tick
	raw.SqrtPriceX96 = sqrtPrice
	raw.TimestampNs = f.TimestampNs
	raw.Decimals0 = f.Decimals0
	raw.Decimals1 = f.Decimals1
	return raw, nil
}
