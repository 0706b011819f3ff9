package relay

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"torq.dev/core/validation"
	"torq.dev/core/wire"
)

// TestS1MarketDataIsolation mirrors spec §8.3 S1's final assertion: a
// consumer subscribed to MarketData receives the message; a connection on
// the Signal relay never sees it (it is a different socket entirely).
func TestS1MarketDataIsolation(t *testing.T) {
	srv := NewServer(MarketDataLogic, validation.Default(), nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx, ln)

	producer, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial producer: %v", err)
	}
	defer producer.Close()

	consumer, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial consumer: %v", err)
	}
	defer consumer.Close()

	time.Sleep(20 * time.Millisecond) // let both connections register

	msg, err := wire.BuildTLVMessage(wire.DomainMarketData, wire.SourceKrakenCollector, 1, uint64(time.Now().UnixNano()), 1, make([]byte, 40))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := producer.Write(msg); err != nil {
		t.Fatalf("write: %v", err)
	}

	consumer.SetReadDeadline(time.Now().Add(2 * time.Second))
	got := make([]byte, len(msg))
	if _, err := io.ReadFull(consumer, got); err != nil {
		t.Fatalf("consumer did not receive broadcast message: %v", err)
	}
	if string(got) != string(msg) {
		t.Fatal("received bytes differ from sent message")
	}
}

// TestNewConnectionResetsSequenceTracker mirrors spec §3.6's monotonicity
// exception: a source that reconnects and restarts its sequence from 1 must
// not be rejected as stale/duplicate against the previous connection's state.
func TestNewConnectionResetsSequenceTracker(t *testing.T) {
	srv := NewServer(SignalLogic, validation.Default(), nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx, ln)

	producer, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial producer: %v", err)
	}
	momentum := make([]byte, 48)
	for seq := uint64(1); seq <= 5; seq++ {
		msg, err := wire.BuildTLVMessage(wire.DomainSignal, wire.SourceTrendFollower, seq, uint64(time.Now().UnixNano()), 21, momentum)
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if _, err := producer.Write(msg); err != nil {
			t.Fatalf("write seq %d: %v", seq, err)
		}
	}
	time.Sleep(20 * time.Millisecond)
	producer.Close()
	time.Sleep(20 * time.Millisecond) // let the relay notice EOF and unregister

	producer2, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial second producer: %v", err)
	}
	defer producer2.Close()

	consumer, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial consumer: %v", err)
	}
	defer consumer.Close()
	time.Sleep(20 * time.Millisecond)

	msg, err := wire.BuildTLVMessage(wire.DomainSignal, wire.SourceTrendFollower, 1, uint64(time.Now().UnixNano()), 21, momentum)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := producer2.Write(msg); err != nil {
		t.Fatalf("write: %v", err)
	}

	consumer.SetReadDeadline(time.Now().Add(2 * time.Second))
	got := make([]byte, len(msg))
	if _, err := io.ReadFull(consumer, got); err != nil {
		t.Fatalf("sequence restarting at 1 on a new connection should be accepted and broadcast, got: %v", err)
	}
}

// TestStateInvalidationResetsSequenceTracker mirrors spec §4.5: an explicit
// StateInvalidation TLV resets tracked sequence state for its source even on
// the same connection, so a producer can rewind its sequence mid-connection.
func TestStateInvalidationResetsSequenceTracker(t *testing.T) {
	srv := NewServer(SignalLogic, validation.Default(), nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx, ln)

	producer, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial producer: %v", err)
	}
	defer producer.Close()
	consumer, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial consumer: %v", err)
	}
	defer consumer.Close()
	time.Sleep(20 * time.Millisecond)

	momentum := make([]byte, 48)
	for seq := uint64(1); seq <= 5; seq++ {
		msg, err := wire.BuildTLVMessage(wire.DomainSignal, wire.SourceTrendFollower, seq, uint64(time.Now().UnixNano()), 21, momentum)
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if _, err := producer.Write(msg); err != nil {
			t.Fatalf("write seq %d: %v", seq, err)
		}
		consumer.SetReadDeadline(time.Now().Add(2 * time.Second))
		got := make([]byte, len(msg))
		if _, err := io.ReadFull(consumer, got); err != nil {
			t.Fatalf("seq %d not broadcast: %v", seq, err)
		}
	}

	invalidation, err := wire.BuildTLVMessage(wire.DomainSignal, wire.SourceTrendFollower, 6, uint64(time.Now().UnixNano()), wire.TLVTypeStateInvalidation, nil)
	if err != nil {
		t.Fatalf("build invalidation: %v", err)
	}
	if _, err := producer.Write(invalidation); err != nil {
		t.Fatalf("write invalidation: %v", err)
	}
	consumer.SetReadDeadline(time.Now().Add(2 * time.Second))
	got := make([]byte, len(invalidation))
	if _, err := io.ReadFull(consumer, got); err != nil {
		t.Fatalf("invalidation message not broadcast: %v", err)
	}

	// Producer rewinds its sequence back to 1 on the same connection; without
	// the reset this would be classified RejectedStale/RejectedDuplicate.
	rewound, err := wire.BuildTLVMessage(wire.DomainSignal, wire.SourceTrendFollower, 1, uint64(time.Now().UnixNano()), 21, momentum)
	if err != nil {
		t.Fatalf("build rewound: %v", err)
	}
	if _, err := producer.Write(rewound); err != nil {
		t.Fatalf("write rewound: %v", err)
	}
	consumer.SetReadDeadline(time.Now().Add(2 * time.Second))
	got2 := make([]byte, len(rewound))
	if _, err := io.ReadFull(consumer, got2); err != nil {
		t.Fatalf("rewound sequence should be accepted after StateInvalidation, got: %v", err)
	}
}

func TestSubscriptionAcceptsTopic(t *testing.T) {
	sub := Subscription{Topics: map[string]bool{"market_data_kraken": true}}
	if sub.Accepts("market_data_binance") {
		t.Fatal("should not accept unsubscribed topic")
	}
	if !sub.Accepts("market_data_kraken") {
		t.Fatal("should accept subscribed topic")
	}
	all := Subscription{AllDomain: true}
	if !all.Accepts("anything") {
		t.Fatal("AllDomain subscription should accept any topic")
	}
}
