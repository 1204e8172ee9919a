// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package eventprocessor

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/skywatch/internal/logging"
)

// Transport is a connected publisher/subscriber pair for one backend.
type Transport struct {
	Name       string
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

// Close closes both sides. A shared in-memory pubsub is closed once.
func (t *Transport) Close() error {
	var firstErr error
	if t.Subscriber != nil {
		firstErr = t.Subscriber.Close()
	}
	if t.Publisher != nil && any(t.Publisher) != any(t.Subscriber) {
		if err := t.Publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewTransport builds the transport selected by cfg.Transport.
func NewTransport(cfg *Config, logger watermill.LoggerAdapter) (*Transport, error) {
	switch cfg.Transport {
	case TransportMemory:
		return NewMemoryTransport(logger), nil
	case TransportNATS:
		return NewNATSTransport(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, cfg.Transport)
	}
}

// NewMemoryTransport returns an in-process Go channel pubsub. It backs the
// feed in single-binary deployments and in tests.
func NewMemoryTransport(logger watermill.LoggerAdapter) *Transport {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, logger)
	return &Transport{Name: TransportMemory, Publisher: pubSub, Subscriber: pubSub}
}

// NewNATSTransport connects a core NATS publisher and queue-group subscriber.
// Aircraft snapshots are high-rate and superseded within seconds, so
// JetStream persistence is disabled.
func NewNATSTransport(cfg *Config, logger watermill.LoggerAdapter) (*Transport, error) {
	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logging.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logging.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	jsConfig := wmNats.JetStreamConfig{Disabled: true}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   jsConfig,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.NATSURL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: cfg.SubscribersCount,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        jsConfig,
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create nats subscriber: %w", err)
	}

	return &Transport{Name: TransportNATS, Publisher: pub, Subscriber: sub}, nil
}
