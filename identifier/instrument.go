// Package identifier implements Protocol V2's bijective instrument
// identifiers (spec §3.5, §4.1): fixed 12-byte InstrumentId values that are
// reversible within one venue and asset_type without a side-table lookup.
package identifier

import "fmt"

// AssetType enumerates the asset classes an InstrumentId can name.
type AssetType uint8

const (
	AssetUnknown AssetType = 0
	AssetCoin    AssetType = 1
	AssetStock   AssetType = 2
	AssetToken   AssetType = 3
	AssetPool    AssetType = 4
	AssetOption  AssetType = 5
	AssetFuture  AssetType = 6
)

func (a AssetType) String() string {
	switch a {
	case AssetCoin:
		return "Coin"
	case AssetStock:
		return "Stock"
	case AssetToken:
		return "Token"
	case AssetPool:
		return "Pool"
	case AssetOption:
		return "Option"
	case AssetFuture:
		return "Future"
	default:
		return "Unknown"
	}
}

// Venue identifies the origin exchange or blockchain. The numeric ranges are
// a closed table: centralized exchanges occupy low values, blockchains
// occupy a disjoint high range so chain_id recovery is table-driven, not
// arithmetic.
type Venue uint16

// Venue numbers below follow spec §8.3 S1's worked example exactly
// (venue=Kraken(=3)); Binance and Coinbase fill the remaining low values.
const (
	VenueUnknown  Venue = 0
	VenueBinance  Venue = 1
	VenueCoinbase Venue = 2
	VenueKraken   Venue = 3
	VenueGemini   Venue = 4

	// Blockchain venues start at 1000; ChainID() below is the address book.
	VenueEthereum Venue = 1000
	VenuePolygon  Venue = 1001
	VenueArbitrum Venue = 1002
	VenueBase     Venue = 1003
)

var venueChainID = map[Venue]uint32{
	VenueEthereum: 1,
	VenuePolygon:  137,
	VenueArbitrum: 42161,
	VenueBase:     8453,
}

// ChainID returns the EVM chain id for a blockchain venue. ok is false for
// centralized-exchange venues or unrecognized values.
func (v Venue) ChainID() (id uint32, ok bool) {
	id, ok = venueChainID[v]
	return id, ok
}

// IsBlockchain reports whether v is a blockchain venue (chain-id bearing)
// as opposed to a centralized exchange.
func (v Venue) IsBlockchain() bool {
	_, ok := venueChainID[v]
	return ok
}

// IdentifierError is producer-local (§7): it never surfaces on the wire.
type IdentifierError struct {
	Op  string
	Msg string
}

func (e *IdentifierError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("identifier: %s: %s", e.Op, e.Msg)
}

func idErr(op, msg string) error { return &IdentifierError{Op: op, Msg: msg} }

// InstrumentSize is the fixed wire width of an InstrumentId.
const InstrumentSize = 12

// InstrumentId is the 12-byte self-describing asset identifier (spec §3.5).
//
//	offset 0: venue      (u16 LE)
//	offset 2: asset_type (u8)
//	offset 3: reserved   (u8, always 0)
//	offset 4: asset_id   (u64 LE)
type InstrumentId struct {
	Venue     Venue
	AssetType AssetType
	AssetID   uint64
}

// Bytes serializes the identifier to its canonical 12-byte wire form.
func (id InstrumentId) Bytes() [InstrumentSize]byte {
	var out [InstrumentSize]byte
	out[0] = byte(id.Venue)
	out[1] = byte(id.Venue >> 8)
	out[2] = byte(id.AssetType)
	out[3] = 0
	putU64LE(out[4:12], id.AssetID)
	return out
}

// ParseInstrumentId decodes the 12-byte wire form, rejecting a non-zero
// reserved byte.
func ParseInstrumentId(b []byte) (InstrumentId, error) {
	if len(b) != InstrumentSize {
		return InstrumentId{}, idErr("parse", fmt.Sprintf("need %d bytes, got %d", InstrumentSize, len(b)))
	}
	if b[3] != 0 {
		return InstrumentId{}, idErr("parse", "reserved byte must be zero")
	}
	return InstrumentId{
		Venue:     Venue(uint16(b[0]) | uint16(b[1])<<8),
		AssetType: AssetType(b[2]),
		AssetID:   getU64LE(b[4:12]),
	}, nil
}

func putU64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getU64LE(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// symbolToAssetID left-aligns and zero-pads an ASCII symbol into an 8-byte
// asset_id, failing closed for symbols that do not fit (spec §4.1).
func symbolToAssetID(symbol string) (uint64, error) {
	if symbol == "" {
		return 0, idErr("symbol", "empty symbol")
	}
	if len(symbol) > 8 {
		return 0, idErr("symbol", fmt.Sprintf("symbol %q too long (max 8 bytes)", symbol))
	}
	var buf [8]byte
	copy(buf[:], symbol)
	return getU64LE(buf[:]), nil
}

// addressPrefixToAssetID projects the leading 8 bytes of a contract address
// into an asset_id. This is documented as lossy (spec §3.5): it is a cache
// key, not a full identity. Pools must use the Pool() constructor instead,
// which keeps the full address out-of-band in the TLV payload.
func addressPrefixToAssetID(addr []byte) (uint64, error) {
	if len(addr) < 8 {
		return 0, idErr("address", "address shorter than 8 bytes")
	}
	return getU64LE(addr[:8]), nil
}

// Coin builds a centralized-exchange coin/currency instrument.
func Coin(venue Venue, symbol string) (InstrumentId, error) {
	aid, err := symbolToAssetID(symbol)
	if err != nil {
		return InstrumentId{}, err
	}
	return InstrumentId{Venue: venue, AssetType: AssetCoin, AssetID: aid}, nil
}

// Stock builds a centralized-exchange equity instrument.
func Stock(venue Venue, symbol string) (InstrumentId, error) {
	aid, err := symbolToAssetID(symbol)
	if err != nil {
		return InstrumentId{}, err
	}
	return InstrumentId{Venue: venue, AssetType: AssetStock, AssetID: aid}, nil
}

// Token builds an on-chain token instrument from a 20-byte contract address.
// Only the leading 8 bytes survive in AssetID; callers that need the full
// address must carry it separately (as pool TLVs do for pools).
func Token(chain Venue, addr [20]byte) (InstrumentId, error) {
	aid, err := addressPrefixToAssetID(addr[:])
	if err != nil {
		return InstrumentId{}, err
	}
	return InstrumentId{Venue: chain, AssetType: AssetToken, AssetID: aid}, nil
}

// Pool builds a pool instrument. Like Token, AssetID is a lossy 8-byte
// projection of the full pool address: the deterministic derivation is
// "leading 8 bytes of the address", identical to Token's projection, so
// that a pool's cache-key and its token-style projection coincide if ever
// compared. The authoritative 20-byte address always travels in the pool's
// TLV payload (spec §3.5, §3.6) and must be used for identity, never AssetID.
func Pool(chain Venue, poolAddr [20]byte) (InstrumentId, error) {
	aid, err := addressPrefixToAssetID(poolAddr[:])
	if err != nil {
		return InstrumentId{}, err
	}
	return InstrumentId{Venue: chain, AssetType: AssetPool, AssetID: aid}, nil
}

// CanPairWith reports whether two instruments may be arbitraged/paired: same
// venue and, for blockchain venues, the same recoverable chain id.
func (id InstrumentId) CanPairWith(other InstrumentId) bool {
	if id.Venue != other.Venue {
		return false
	}
	idChain, idOK := id.Venue.ChainID()
	otherChain, otherOK := other.Venue.ChainID()
	if idOK != otherOK {
		return false
	}
	if idOK && idChain != otherChain {
		return false
	}
	return true
}
