// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package eventprocessor

import (
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/skywatch/internal/metrics"
)

// Publisher is the verdict-side message.Publisher handed to the router. It
// stamps a NATS dedup header on each message and fails fast through a
// circuit breaker while the broker is unreachable.
type Publisher struct {
	next    message.Publisher
	breaker *gobreaker.CircuitBreaker[interface{}]

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps pub. A nil cb publishes without a breaker.
func NewPublisher(pub message.Publisher, cb *gobreaker.CircuitBreaker[interface{}]) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	return &Publisher{next: pub, breaker: cb}, nil
}

// Publish forwards msgs to topic. Nats-Msg-Id defaults to the message UUID
// so a JetStream subject drops redeliveries. With the breaker open it
// returns gobreaker.ErrOpenState without touching the transport.
func (p *Publisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	for _, m := range msgs {
		if m.Metadata.Get(natsgo.MsgIdHdr) == "" {
			m.Metadata.Set(natsgo.MsgIdHdr, m.UUID)
		}
	}
	if err := p.send(topic, msgs); err != nil {
		return err
	}
	for range msgs {
		metrics.RecordFeedPublish()
	}
	return nil
}

func (p *Publisher) send(topic string, msgs []*message.Message) error {
	if p.breaker == nil {
		return p.next.Publish(topic, msgs...)
	}
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.next.Publish(topic, msgs...)
	})
	return err
}

// Close closes the wrapped publisher; later calls are no-ops.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.next.Close()
}

// CircuitState is the breaker state, or "disabled" without one.
func (p *Publisher) CircuitState() string {
	if p.breaker == nil {
		return "disabled"
	}
	return CircuitBreakerState(p.breaker)
}
