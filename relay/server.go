package relay

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"torq.dev/core/sequence"
	"torq.dev/core/validation"
	"torq.dev/core/wire"
)

// DefaultOutboundQueueSize bounds each consumer's per-connection outbound
// buffer (spec §4.6 "bounded" outbound queue).
const DefaultOutboundQueueSize = 1024

// Server is one domain relay: it accepts connections on a single local
// socket, validates every inbound message, and broadcasts it to every
// consumer whose subscription matches (spec §4.6).
type Server struct {
	Logic     DomainLogic
	Validator *validation.Validator
	Tracker   *sequence.Tracker
	Log       *logrus.Logger
	QueueSize int

	mu        sync.RWMutex
	consumers map[string]*Consumer

	listener net.Listener
}

// NewServer builds a Server for one domain, owning its own Validator and
// sequence.Tracker.
func NewServer(logic DomainLogic, cfg validation.ValidationConfig, log *logrus.Logger) *Server {
	return &Server{
		Logic:     logic,
		Validator: validation.New(cfg, logic.Domain()),
		Tracker:   sequence.New(cfg.Sequence),
		Log:       log,
		QueueSize: DefaultOutboundQueueSize,
		consumers: make(map[string]*Consumer),
	}
}

// Serve accepts connections on l until ctx is canceled or Shutdown is
// called. Each connection runs in its own goroutine: one inbound reader
// (validate + broadcast) and one outbound writer, started as soon as the
// connection is accepted and registered as a consumer.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.listener = l

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = l.Close()
		case <-done:
		}
	}()
	defer close(done)

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return errAccept(err)
			}
		}
		go s.handleConn(ctx, conn)
	}
}

// handleConn runs the read loop for one connection (spec §4.6 "two tasks"
// per connection, modeled on the teacher's p2p.Peer.Run loop). Every
// connection is simultaneously eligible to produce and to consume: it is
// registered as a Consumer on accept, before any read, so it can also
// receive broadcasts,
// since producer/consumer roles are not distinguished at the transport
// layer (spec §4.6).
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	consumer := newConsumer(conn, Subscription{AllDomain: true}, s.QueueSize)
	s.register(consumer)
	defer s.unregister(consumer)

	go consumer.runWriter()

	// A source is only known once its first message header arrives, so the
	// "new connection" reset case (spec §3.6) is applied to the tracker the
	// first time this connection produces a message, not at accept time.
	firstMessage := true

	var headerBuf [wire.HeaderSize]byte
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, err := io.ReadFull(conn, headerBuf[:]); err != nil {
			if err != io.EOF {
				s.logf(logrus.Fields{"event": "read_header_failed", "err": err.Error()}, "relay: connection read failed")
			}
			return
		}
		header, err := wire.ParseHeader(headerBuf[:])
		if err != nil {
			s.logf(logrus.Fields{"event": "malformed_header", "err": err.Error()}, "relay: malformed header, closing connection")
			return
		}
		payload := make([]byte, header.PayloadSize)
		if _, err := io.ReadFull(conn, payload); err != nil {
			s.logf(logrus.Fields{"event": "read_payload_failed", "err": err.Error()}, "relay: connection read failed")
			return
		}

		if header.RelayDomain != s.Logic.Domain() {
			// Forwarding rule step 2 (spec §4.6): drop, don't disconnect —
			// a cross-domain message is routing noise, not malformation.
			continue
		}

		raw := append(append([]byte(nil), headerBuf[:]...), payload...)
		validated, err := s.Validator.Validate(raw, uint64(time.Now().UnixNano()))
		if err != nil {
			// Spec §8.3 S2: one policy violation (bad checksum, timestamp,
			// size, TLV shape) closes the offending connection; other
			// consumers and producers are unaffected.
			s.logf(logrus.Fields{"event": "validation_failed", "source": header.Source, "err": err.Error()}, "relay: validation failed, closing connection")
			return
		}

		if s.Tracker != nil {
			invalidated := false
			for _, tlv := range validated.TLVs {
				if tlv.Type == wire.TLVTypeStateInvalidation {
					// Explicit StateInvalidation (spec §4.5, §3.6): the
					// producer is telling us to forget its sequence history.
					// The invalidation message itself is exempt from
					// classification — like a new connection's first
					// message, it seeds no baseline, so the very next
					// message (whatever sequence the producer picks) is the
					// one that starts the tracker fresh.
					s.Tracker.Reset(header.Source)
					s.logf(logrus.Fields{"event": "state_invalidation", "source": header.Source}, "relay: sequence tracker reset by StateInvalidation")
					invalidated = true
					break
				}
			}

			if !invalidated {
				if firstMessage {
					// New connection (spec §3.6 monotonicity exception):
					// this source's prior tracked state, if any, belongs to
					// a connection that is gone. Start it fresh.
					s.Tracker.Reset(header.Source)
				}
				result := s.Tracker.Classify(header.Source, header.Sequence)
				if !result.Accept() && validated.Policy.SequenceEnforcement != validation.SequenceAdvisory {
					s.logf(logrus.Fields{"event": "sequence_rejected", "source": header.Source, "classification": result.Classification.String()}, "relay: sequence rejected")
					continue
				}
			}
		}
		firstMessage = false

		s.broadcast(header.Source.Topic(), raw, consumer.ID)
	}
}

func (s *Server) register(c *Consumer) {
	s.mu.Lock()
	s.consumers[c.ID] = c
	s.mu.Unlock()
}

func (s *Server) unregister(c *Consumer) {
	s.mu.Lock()
	delete(s.consumers, c.ID)
	s.mu.Unlock()
	c.Close()
}

// broadcast fans raw out to every consumer whose subscription accepts
// topic, excluding the originating connection. The hot path only takes a
// read lock (spec §4.6).
func (s *Server) broadcast(topic string, raw []byte, originID string) {
	s.mu.RLock()
	targets := make([]*Consumer, 0, len(s.consumers))
	for _, c := range s.consumers {
		if c.ID == originID {
			continue
		}
		if c.Subscription.Accepts(topic) {
			targets = append(targets, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range targets {
		if c.Enqueue(raw) {
			continue
		}
		switch s.Logic.Backpressure() {
		case DropConsumer:
			s.logf(logrus.Fields{"event": "slow_consumer_dropped", "consumer": c.ID}, "relay: dropping slow consumer")
			s.unregister(c)
		case DropMessageAdvise:
			s.logf(logrus.Fields{"event": "slow_consumer_advisory", "consumer": c.ID}, "relay: dropped message for slow consumer")
		}
	}
}

// Shutdown closes the listener, then waits up to the domain's drain
// deadline for outbound queues to empty before force-closing every
// connection (spec §4.6 two-phase shutdown).
func (s *Server) Shutdown(ctx context.Context) error {
	if s.listener != nil {
		_ = s.listener.Close()
	}

	deadline := time.NewTimer(s.Logic.DrainDeadline())
	defer deadline.Stop()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		if s.allQueuesDrained() {
			break
		}
		select {
		case <-deadline.C:
			goto forceClose
		case <-ticker.C:
		}
	}

forceClose:
	s.mu.Lock()
	for _, c := range s.consumers {
		c.Close()
	}
	s.consumers = make(map[string]*Consumer)
	s.mu.Unlock()
	return nil
}

func (s *Server) allQueuesDrained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.consumers {
		if len(c.outbound) > 0 {
			return false
		}
	}
	return true
}

func (s *Server) logf(fields logrus.Fields, msg string) {
	if s.Log == nil {
		return
	}
	s.Log.WithFields(fields).WithField("domain", s.Logic.Domain().String()).Warn(msg)
}
