package relay

import (
	"net"
	"sync"

	"github.com/google/uuid"
)

// Subscription selects which messages a consumer receives (spec §4.6):
// either every message on the domain, or a topic subset. Topics are derived
// from SourceType.Topic() — a pure function of the producer identity.
type Subscription struct {
	AllDomain bool
	Topics    map[string]bool
}

// Accepts reports whether a message with the given topic matches this
// subscription.
func (s Subscription) Accepts(topic string) bool {
	if s.AllDomain {
		return true
	}
	return s.Topics[topic]
}

// Consumer is one registered connection's outbound side: a bounded queue
// drained by a dedicated writer goroutine, so a slow reader never blocks
// the broadcast hot path (spec §4.6 "outbound writer task").
type Consumer struct {
	ID           string
	Conn         net.Conn
	Subscription Subscription

	outbound chan []byte
	closeOnce sync.Once
	done      chan struct{}
}

func newConsumer(conn net.Conn, sub Subscription, queueSize int) *Consumer {
	return &Consumer{
		ID:           uuid.NewString(),
		Conn:         conn,
		Subscription: sub,
		outbound:     make(chan []byte, queueSize),
		done:         make(chan struct{}),
	}
}

// Enqueue attempts a non-blocking send onto the consumer's outbound queue.
// It reports false if the queue was full (the caller applies domain
// backpressure policy in that case).
func (c *Consumer) Enqueue(msg []byte) bool {
	select {
	case c.outbound <- msg:
		return true
	default:
		return false
	}
}

// runWriter drains the outbound queue to the connection until closed.
func (c *Consumer) runWriter() {
	for {
		select {
		case msg, ok := <-c.outbound:
			if !ok {
				return
			}
			if _, err := c.Conn.Write(msg); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close tears down the consumer's connection and outbound queue exactly
// once, safe to call concurrently from the reader and writer sides.
func (c *Consumer) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.Conn.Close()
	})
}
