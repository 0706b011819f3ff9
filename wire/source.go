package wire

// SourceType is the two-byte producer identity embedded in every header
// (spec §3.4). Ranges are a closed partition so a source's role is
// recoverable from the numeric value alone, with no lookup required.
type SourceType uint16

const (
	SourceUnknown SourceType = 0

	// Exchange collectors: 1-19.
	SourceBinanceCollector  SourceType = 1
	SourceKrakenCollector   SourceType = 2
	SourceCoinbaseCollector SourceType = 3
	SourcePolygonCollector  SourceType = 4
	SourceGeminiCollector   SourceType = 5

	// Strategy services: 20-39.
	SourceArbitrageStrategy   SourceType = 20
	SourceMarketMaker         SourceType = 21
	SourceTrendFollower       SourceType = 22
	SourceKrakenSignalStrategy SourceType = 23

	// Execution services: 40-59.
	SourcePortfolioManager SourceType = 40
	SourceRiskManager      SourceType = 41
	SourceExecutionEngine  SourceType = 42

	// System services: 60-79.
	SourceDashboard       SourceType = 60
	SourceMetricsCollector SourceType = 61
	SourceStateManager    SourceType = 62

	// Relays themselves: 80-99.
	SourceMarketDataRelay SourceType = 80
	SourceSignalRelay     SourceType = 81
	SourceExecutionRelay  SourceType = 82
	SourceSystemRelay     SourceType = 83

	// Test/tooling: 99, inside the relay range (IsRelay reports true).
	SourceTestClient SourceType = 99
)

// IsCollector reports whether s is an exchange collector (1-19).
func (s SourceType) IsCollector() bool { return s >= 1 && s <= 19 }

// IsStrategy reports whether s is a strategy service (20-39).
func (s SourceType) IsStrategy() bool { return s >= 20 && s <= 39 }

// IsExecution reports whether s is an execution service (40-59).
func (s SourceType) IsExecution() bool { return s >= 40 && s <= 59 }

// IsSystem reports whether s is a system service (60-79).
func (s SourceType) IsSystem() bool { return s >= 60 && s <= 79 }

// IsRelay reports whether s is a relay process itself (80-99).
func (s SourceType) IsRelay() bool { return s >= 80 && s <= 99 }

// Valid reports whether s falls in any recognized partition.
func (s SourceType) Valid() bool {
	return s.IsCollector() || s.IsStrategy() || s.IsExecution() || s.IsSystem() || s.IsRelay()
}

// Topic derives the per-venue subscription topic for a source (spec §4.6):
// a pure function of source alone, so consumers can filter by venue
// without parsing any TLVs. Non-collector sources topic to their own id
// since "by source-type, enumerated" is this implementation's resolved
// answer to the topic-granularity open question (spec §9).
func (s SourceType) Topic() string {
	switch s {
	case SourceBinanceCollector:
		return "market_data_binance"
	case SourceKrakenCollector:
		return "market_data_kraken"
	case SourceCoinbaseCollector:
		return "market_data_coinbase"
	case SourcePolygonCollector:
		return "market_data_polygon"
	case SourceGeminiCollector:
		return "market_data_gemini"
	default:
		return "source_" + itoa(uint16(s))
	}
}

func itoa(v uint16) string {
	if v == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// ParseSourceType validates a raw header field against the recognized
// partitions.
func ParseSourceType(v uint16) (SourceType, error) {
	s := SourceType(v)
	if !s.Valid() {
		return 0, errInvalidSourceType(v)
	}
	return s, nil
}
