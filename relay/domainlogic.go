package relay

import (
	"time"

	"torq.dev/core/wire"
)

// BackpressurePolicy is a domain's choice for handling a full consumer
// outbound queue (spec §4.6): MarketData trades completeness for
// throughput, Signal/Execution trade throughput for completeness.
type BackpressurePolicy int

const (
	// DropConsumer disconnects the slow consumer outright.
	DropConsumer BackpressurePolicy = iota
	// DropMessageAdvise drops the individual message for that consumer and
	// logs a slow_consumer_advisory event; no SlowConsumerAdvisory TLV
	// (type 82) is sent to the consumer.
	DropMessageAdvise
)

// DomainLogic is the per-domain policy object a Server consults instead of
// hardcoding domain ranges or behavior (spec §4.3, and `RelayLogic` in
// original_source's `libs/messaging/relays/domains/*`).
type DomainLogic interface {
	Domain() wire.RelayDomain
	SocketPath() string
	Backpressure() BackpressurePolicy
	// DrainDeadline bounds how long the server waits for this domain's
	// consumer queues to empty during a graceful shutdown.
	DrainDeadline() time.Duration
}

type marketDataLogic struct{}

func (marketDataLogic) Domain() wire.RelayDomain        { return wire.DomainMarketData }
func (marketDataLogic) SocketPath() string              { return wire.DomainMarketData.SocketPath() }
func (marketDataLogic) Backpressure() BackpressurePolicy { return DropConsumer }
func (marketDataLogic) DrainDeadline() time.Duration    { return 100 * time.Millisecond }

type signalLogic struct{}

func (signalLogic) Domain() wire.RelayDomain        { return wire.DomainSignal }
func (signalLogic) SocketPath() string              { return wire.DomainSignal.SocketPath() }
func (signalLogic) Backpressure() BackpressurePolicy { return DropMessageAdvise }
func (signalLogic) DrainDeadline() time.Duration    { return 1 * time.Second }

type executionLogic struct{}

func (executionLogic) Domain() wire.RelayDomain        { return wire.DomainExecution }
func (executionLogic) SocketPath() string              { return wire.DomainExecution.SocketPath() }
func (executionLogic) Backpressure() BackpressurePolicy { return DropMessageAdvise }
func (executionLogic) DrainDeadline() time.Duration    { return 2 * time.Second }

type systemLogic struct{}

func (systemLogic) Domain() wire.RelayDomain        { return wire.DomainSystem }
func (systemLogic) SocketPath() string              { return wire.DomainSystem.SocketPath() }
func (systemLogic) Backpressure() BackpressurePolicy { return DropMessageAdvise }
func (systemLogic) DrainDeadline() time.Duration    { return 500 * time.Millisecond }

// MarketDataLogic, SignalLogic, ExecutionLogic, SystemLogic are the four
// fixed domain logic singletons (spec §4.6, §3.3).
var (
	MarketDataLogic DomainLogic = marketDataLogic{}
	SignalLogic     DomainLogic = signalLogic{}
	ExecutionLogic  DomainLogic = executionLogic{}
	SystemLogic     DomainLogic = systemLogic{}
)

// LogicFor returns the fixed DomainLogic for a relay domain.
func LogicFor(d wire.RelayDomain) DomainLogic {
	switch d {
	case wire.DomainMarketData:
		return MarketDataLogic
	case wire.DomainSignal:
		return SignalLogic
	case wire.DomainExecution:
		return ExecutionLogic
	case wire.DomainSystem:
		return SystemLogic
	default:
		return nil
	}
}
