package wire

// SizeConstraintKind discriminates the three shapes a TLV type's payload
// size can take (spec §4.3).
type SizeConstraintKind uint8

const (
	SizeFixed SizeConstraintKind = iota
	SizeBounded
	SizeVariable
)

// SizeConstraint describes the legal payload-size envelope for a TLV type.
type SizeConstraint struct {
	Kind SizeConstraintKind
	// Fixed uses N only. Bounded uses Min/Max. Variable uses neither.
	N        int
	Min, Max int
}

func Fixed(n int) SizeConstraint          { return SizeConstraint{Kind: SizeFixed, N: n} }
func Bounded(min, max int) SizeConstraint { return SizeConstraint{Kind: SizeBounded, Min: min, Max: max} }
func Variable() SizeConstraint            { return SizeConstraint{Kind: SizeVariable} }

// Satisfies reports whether payloadLen is legal under the constraint.
func (c SizeConstraint) Satisfies(payloadLen int) bool {
	switch c.Kind {
	case SizeFixed:
		return payloadLen == c.N
	case SizeBounded:
		return payloadLen >= c.Min && payloadLen <= c.Max
	case SizeVariable:
		return true
	default:
		return false
	}
}

// TLVTypeStateInvalidation is the registered type number for the
// StateInvalidation TLV (spec §4.5, §4.9): a producer emits it to tell
// consumers to reset tracked sequence/cache state for its source, the
// explicit-invalidation exception to the monotonicity invariant (spec §3.6).
const TLVTypeStateInvalidation uint8 = 22

// TypeInfo is a domain type registry entry: the single source of truth for
// routing a TLV type number to its domain, size constraint, and developer
// metadata (spec §4.3). Relay/validator code must consult the registry
// rather than hardcoding numeric ranges, so that adding a type only
// requires a registry (and, if structurally new, a validator) change.
type TypeInfo struct {
	Type        uint8
	Name        string
	Domain      RelayDomain
	Size        SizeConstraint
	Description string
}

// Registry is the static type-number -> TypeInfo table. Entries here are
// the "known" types; type numbers inside a domain's numeric range that are
// NOT in this table are still routable (DomainFromTLVType). The validator
// passes them through without reporting or counting them, except under
// SemanticFull (Execution), where it rejects the message.
var Registry = buildRegistry()

func buildRegistry() map[uint8]TypeInfo {
	entries := []TypeInfo{
		// MarketData domain: 1-19.
		{Type: 1, Name: "Trade", Domain: DomainMarketData, Size: Fixed(40), Description: "single executed trade: instrument, price, volume, side, timestamp"},
		{Type: 2, Name: "Quote", Domain: DomainMarketData, Size: Fixed(48), Description: "best bid/ask snapshot"},
		{Type: 3, Name: "OrderBook", Domain: DomainMarketData, Size: Variable(), Description: "order book delta or snapshot, variable depth"},
		{Type: 4, Name: "PoolSwap", Domain: DomainMarketData, Size: Bounded(64, 128), Description: "DEX swap event: pool address, deltas, tick/sqrt_price"},
		{Type: 5, Name: "PoolSync", Domain: DomainMarketData, Size: Fixed(64), Description: "DEX V2 reserve sync (absolute reserve overwrite)"},
		{Type: 6, Name: "PoolMintBurn", Domain: DomainMarketData, Size: Bounded(64, 96), Description: "DEX liquidity mint/burn event"},
		{Type: 7, Name: "PoolLiquidity", Domain: DomainMarketData, Size: Variable(), Description: "full liquidity/tick-range snapshot, often extended-encoded"},

		// Signal domain: 20-39, 60-79.
		{Type: 20, Name: "ArbitrageSignal", Domain: DomainSignal, Size: Bounded(32, 256), Description: "candidate arbitrage opportunity"},
		{Type: 21, Name: "MomentumSignal", Domain: DomainSignal, Size: Fixed(48), Description: "momentum/trend strategy signal"},
		{Type: 22, Name: "StateInvalidation", Domain: DomainSignal, Size: Bounded(0, 64), Description: "tells consumers to reset sequence/cache state for a source"},
		{Type: 60, Name: "BacktestSignal", Domain: DomainSignal, Size: Variable(), Description: "offline/backtest-origin signal replay"},

		// Execution domain: 40-59.
		{Type: 40, Name: "OrderRequest", Domain: DomainExecution, Size: Bounded(48, 256), Description: "strategy -> execution order request"},
		{Type: 41, Name: "OrderStatus", Domain: DomainExecution, Size: Fixed(56), Description: "execution engine order state update"},
		{Type: 42, Name: "Fill", Domain: DomainExecution, Size: Fixed(64), Description: "trade fill confirmation"},
		{Type: 43, Name: "RiskLimitBreach", Domain: DomainExecution, Size: Bounded(32, 128), Description: "risk manager audit event"},

		// System domain: 80-119.
		{Type: 80, Name: "Heartbeat", Domain: DomainSystem, Size: Fixed(8), Description: "liveness heartbeat carrying a monotonic counter"},
		{Type: 81, Name: "SubscriptionRequest", Domain: DomainSystem, Size: Variable(), Description: "consumer subscription control message"},
		{Type: 82, Name: "SlowConsumerAdvisory", Domain: DomainSystem, Size: Bounded(8, 64), Description: "relay-originated backpressure advisory"},
		{Type: 83, Name: "TraceSpan", Domain: DomainSystem, Size: Bounded(16, 256), Description: "trace-id propagation span (spec C10)"},
	}
	m := make(map[uint8]TypeInfo, len(entries))
	for _, e := range entries {
		m[e.Type] = e
	}
	return m
}

// Lookup returns the registry entry for a TLV type, if known.
func Lookup(t uint8) (TypeInfo, bool) {
	info, ok := Registry[t]
	return info, ok
}
