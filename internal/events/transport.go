// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Transport bundles the publisher and subscriber of one transport.
type Transport struct {
	Publisher  *Publisher
	Subscriber message.Subscriber
	Name       string

	newSubscriber func() (message.Subscriber, error)
}

// NewSubscriber returns a subscriber for a single router run. A watermill
// router closes its handlers' subscribers when it stops, so a rebuilt router
// must not reuse one. Closing the returned subscriber leaves the transport
// usable.
func (t *Transport) NewSubscriber() (message.Subscriber, error) {
	if t.newSubscriber == nil {
		return nil, errors.New("events: transport cannot create subscribers")
	}
	return t.newSubscriber()
}

// sharedSubscriber lends the in-process channel to one router. Its
// subscriptions end with the context passed to Subscribe, so Close is a
// no-op and the channel stays open for the publisher and later routers.
type sharedSubscriber struct {
	message.Subscriber
}

func (sharedSubscriber) Close() error { return nil }

// Open builds the configured transport. For NATS the stream is provisioned
// before the publisher and subscriber connect.
func Open(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (*Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	switch cfg.Transport {
	case TransportNATS:
		return openNATS(ctx, cfg, logger)
	default:
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger)
		return &Transport{
			Publisher:  NewPublisher(ch),
			Subscriber: ch,
			Name:       TransportGoChannel,
			newSubscriber: func() (message.Subscriber, error) {
				return sharedSubscriber{ch}, nil
			},
		}, nil
	}
}

// Close releases the publisher and subscriber.
func (t *Transport) Close() error {
	return errors.Join(t.Publisher.Close(), t.Subscriber.Close())
}

func natsOptions(cfg Config, logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

func openNATS(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (*Transport, error) {
	if err := provisionStream(ctx, cfg); err != nil {
		return nil, err
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOptions(cfg, logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := newNATSSubscriber(cfg, logger)
	if err != nil {
		_ = pub.Close()
		return nil, err
	}

	return &Transport{
		Publisher:  NewPublisher(pub),
		Subscriber: sub,
		Name:       TransportNATS,
		newSubscriber: func() (message.Subscriber, error) {
			return newNATSSubscriber(cfg, logger)
		},
	}, nil
}

// newNATSSubscriber connects a durable JetStream subscriber bound to the
// provisioned stream. Each one owns its connection.
func newNATSSubscriber(cfg Config, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.NATSURL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		AckWaitTimeout:   cfg.AckWait,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOptions(cfg, logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			AckAsync:      false,
			DurablePrefix: cfg.DurableName,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.BindStream(cfg.StreamName),
				natsgo.MaxDeliver(cfg.MaxDeliver),
				natsgo.AckWait(cfg.AckWait),
				natsgo.DeliverAll(),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats subscriber: %w", err)
	}
	return sub, nil
}

func provisionStream(ctx context.Context, cfg Config) error {
	nc, err := natsgo.Connect(cfg.NATSURL, natsgo.Timeout(5*time.Second))
	if err != nil {
		return fmt.Errorf("connect to nats: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("jetstream context: %w", err)
	}
	return EnsureStream(ctx, js, &cfg)
}
