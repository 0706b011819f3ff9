package identifier

import "fmt"

// PoolAddrSlotSize is the 8-byte-aligned TLV slot a pool address occupies:
// 20 bytes of address plus 12 zero-padding bytes (spec §3.5).
const PoolAddrSlotSize = 32

// PoolAddrSize is the real chain address length carried in the slot.
const PoolAddrSize = 20

// EncodePoolAddrSlot writes addr into a 32-byte zero-padded slot suitable
// for embedding in a pool TLV so the enclosing TLV stays 8-byte aligned for
// zero-copy parsing.
func EncodePoolAddrSlot(addr [PoolAddrSize]byte) [PoolAddrSlotSize]byte {
	var out [PoolAddrSlotSize]byte
	copy(out[:PoolAddrSize], addr[:])
	return out
}

// DecodePoolAddrSlot validates the padding bytes are zero and returns a
// zero-copy view of the 20-byte address.
func DecodePoolAddrSlot(slot []byte) ([PoolAddrSize]byte, error) {
	var addr [PoolAddrSize]byte
	if len(slot) != PoolAddrSlotSize {
		return addr, idErr("pool_addr", fmt.Sprintf("need %d bytes, got %d", PoolAddrSlotSize, len(slot)))
	}
	for i := PoolAddrSize; i < PoolAddrSlotSize; i++ {
		if slot[i] != 0 {
			return addr, idErr("pool_addr", "padding bytes must be zero")
		}
	}
	copy(addr[:], slot[:PoolAddrSize])
	return addr, nil
}
