// Package poolcache implements the pool-metadata cache (spec §4.8):
// pool-address -> token/decimals/protocol metadata, non-blocking on the hot
// path, backed by a background discovery worker and a bbolt snapshot.
package poolcache

import (
	"encoding/binary"
	"fmt"

	"torq.dev/core/identifier"
)

// PoolInfo is discovered, immutable-on-chain metadata for one pool (spec
// §4.8; ProtocolKind/FeeTierBps per the supplemented identifier.DEXProtocol
// taxonomy).
type PoolInfo struct {
	PoolAddr [20]byte
	Token0   [20]byte
	Token1   [20]byte
	// ChainID is the EVM chain id the pool lives on (identifier.Venue's
	// ChainID() for the discovering venue; 0 for a pool with no associated
	// blockchain venue). It is the versioning key for the persisted
	// snapshot (spec §6.3's "JSON file per chain (versioned with
	// chain_id)" — this implementation buckets by ChainID inside one
	// bbolt database instead of one file per chain; see DESIGN.md).
	ChainID        uint32
	Decimals0      uint8
	Decimals1      uint8
	ProtocolKind   identifier.DEXProtocol
	FeeTierBps     uint32
	DiscoveredAtNs uint64
}

const poolInfoEncodedSize = 20 + 20 + 20 + 4 + 1 + 1 + 1 + 4 + 8

func encodePoolInfo(p PoolInfo) []byte {
	out := make([]byte, poolInfoEncodedSize)
	copy(out[0:20], p.PoolAddr[:])
	copy(out[20:40], p.Token0[:])
	copy(out[40:60], p.Token1[:])
	binary.LittleEndian.PutUint32(out[60:64], p.ChainID)
	out[64] = p.Decimals0
	out[65] = p.Decimals1
	out[66] = byte(p.ProtocolKind)
	binary.LittleEndian.PutUint32(out[67:71], p.FeeTierBps)
	binary.LittleEndian.PutUint64(out[71:79], p.DiscoveredAtNs)
	return out
}

func decodePoolInfo(b []byte) (PoolInfo, error) {
	if len(b) != poolInfoEncodedSize {
		return PoolInfo{}, fmt.Errorf("poolcache: bad pool_info record length %d, want %d", len(b), poolInfoEncodedSize)
	}
	var p PoolInfo
	copy(p.PoolAddr[:], b[0:20])
	copy(p.Token0[:], b[20:40])
	copy(p.Token1[:], b[40:60])
	p.ChainID = binary.LittleEndian.Uint32(b[60:64])
	p.Decimals0 = b[64]
	p.Decimals1 = b[65]
	p.ProtocolKind = identifier.DEXProtocol(b[66])
	p.FeeTierBps = binary.LittleEndian.Uint32(b[67:71])
	p.DiscoveredAtNs = binary.LittleEndian.Uint64(b[71:79])
	return p, nil
}

// Enriched reports whether discovery ever completed for this entry.
// Un-enriched entries (spec §4.8 "Failure modes") carry zero decimals.
func (p PoolInfo) Enriched() bool {
	return p.Decimals0 != 0 || p.Decimals1 != 0
}
