package ingress

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// Fixed field widths for the PoolSwap TLV value (registry type 4, bounded
// 64-128 bytes, spec §3.6/§4.9). Amounts and sqrt_price use fixed-width
// two's-complement big integers rather than uint64 because on-chain
// reserves and Q64.96 prices can exceed a native 64-bit range (same
// reasoning as poolstate.PoolState's use of *big.Int).
const (
	poolAddrSlotSize = 32 // matches identifier.PoolAddrSlotSize: 20-byte address, 12-byte pad
	amountWidth      = 16 // 128-bit signed delta
	sqrtPriceWidth   = 24 // 192-bit signed, covers Uniswap V3's Q64.96 range
	swapValueSize    = poolAddrSlotSize + amountWidth*2 + 4 + sqrtPriceWidth + 8
)

// PoolSwapEvent is the decoded form of a PoolSwap TLV (registry type 4).
type PoolSwapEvent struct {
	PoolAddr     [20]byte
	Amount0Delta *big.Int
	Amount1Delta *big.Int
	Tick         int32
	SqrtPriceX96 *big.Int
	TimestampNs  uint64
}

// putSignedFixed writes v as a two's-complement big-endian value into a
// field of exactly width bytes, sign-extended.
func putSignedFixed(dst []byte, v *big.Int, width int) error {
	if v == nil {
		v = big.NewInt(0)
	}
	neg := v.Sign() < 0
	mag := new(big.Int).Abs(v)
	b := mag.Bytes()
	if len(b) > width {
		return fmt.Errorf("ingress: value does not fit in %d bytes", width)
	}
	for i := range dst {
		dst[i] = 0
	}
	copy(dst[width-len(b):], b)
	if neg {
		for i := range dst {
			dst[i] = ^dst[i]
		}
		// add 1 for two's complement
		for i := width - 1; i >= 0; i-- {
			dst[i]++
			if dst[i] != 0 {
				break
			}
		}
	}
	return nil
}

func getSignedFixed(src []byte) *big.Int {
	neg := src[0]&0x80 != 0
	if !neg {
		return new(big.Int).SetBytes(src)
	}
	inv := make([]byte, len(src))
	for i, b := range src {
		inv[i] = ^b
	}
	mag := new(big.Int).SetBytes(inv)
	mag.Add(mag, big.NewInt(1))
	return mag.Neg(mag)
}

// encodeSwapEvent produces the fixed-layout PoolSwap TLV value.
func encodeSwapEvent(e PoolSwapEvent) ([]byte, error) {
	out := make([]byte, swapValueSize)
	copy(out[0:20], e.PoolAddr[:])
	// bytes 20:32 are the zero-padding half of the 32-byte address slot.
	off := poolAddrSlotSize
	if err := putSignedFixed(out[off:off+amountWidth], e.Amount0Delta, amountWidth); err != nil {
		return nil, err
	}
	off += amountWidth
	if err := putSignedFixed(out[off:off+amountWidth], e.Amount1Delta, amountWidth); err != nil {
		return nil, err
	}
	off += amountWidth
	binary.LittleEndian.PutUint32(out[off:off+4], uint32(e.Tick))
	off += 4
	if err := putSignedFixed(out[off:off+sqrtPriceWidth], e.SqrtPriceX96, sqrtPriceWidth); err != nil {
		return nil, err
	}
	off += sqrtPriceWidth
	binary.LittleEndian.PutUint64(out[off:off+8], e.TimestampNs)
	return out, nil
}

// decodeSwapEvent parses a PoolSwap TLV value back into a PoolSwapEvent.
func decodeSwapEvent(b []byte) (PoolSwapEvent, error) {
	if len(b) != swapValueSize {
		return PoolSwapEvent{}, fmt.Errorf("ingress: bad PoolSwap value length %d, want %d", len(b), swapValueSize)
	}
	var e PoolSwapEvent
	copy(e.PoolAddr[:], b[0:20])
	for i := 20; i < poolAddrSlotSize; i++ {
		if b[i] != 0 {
			return PoolSwapEvent{}, fmt.Errorf("ingress: pool address slot padding must be zero")
		}
	}
	off := poolAddrSlotSize
	e.Amount0Delta = getSignedFixed(b[off : off+amountWidth])
	off += amountWidth
	e.Amount1Delta = getSignedFixed(b[off : off+amountWidth])
	off += amountWidth
	e.Tick = int32(binary.LittleEndian.Uint32(b[off : off+4]))
	off += 4
	e.SqrtPriceX96 = getSignedFixed(b[off : off+sqrtPriceWidth])
	off += sqrtPriceWidth
	e.TimestampNs = binary.LittleEndian.Uint64(b[off : off+8])
	return e, nil
}
