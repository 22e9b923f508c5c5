package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConfig holds configuration for the NATS backed broadcaster
type NATSConfig struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns default NATS configuration
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "draftagent",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// NATSBroadcaster publishes events on core NATS and relays every event it
// receives into a local hub, so sockets on any process see every publish.
// Delivery is at most once.
type NATSBroadcaster struct {
	nc     *nats.Conn
	sub    *nats.Subscription
	local  *Hub
	prefix string
}

// NewNATSBroadcaster connects and starts relaying prefix.> into local
func NewNATSBroadcaster(config NATSConfig, local *Hub) (*NATSBroadcaster, error) {
	opts := []nats.Option{
		nats.Name("draftagent"),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	b := &NATSBroadcaster{
		nc:     nc,
		local:  local,
		prefix: config.SubjectPrefix,
	}

	sub, err := nc.Subscribe(b.prefix+".>", b.relay)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("subscribe to %s.>: %w", b.prefix, err)
	}
	b.sub = sub

	log.Info().
		Str("url", nc.ConnectedUrl()).
		Str("subject", b.prefix+".>").
		Msg("NATS broadcaster connected")
	return b, nil
}

func (b *NATSBroadcaster) subject(topic string) string {
	return b.prefix + "." + topic
}

func (b *NATSBroadcaster) Publish(_ context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.nc.Publish(b.subject(topic), data); err != nil {
		return fmt.Errorf("publish to NATS: %w", err)
	}
	return nil
}

func (b *NATSBroadcaster) Subscribe(topic string, handler Handler) Subscription {
	return b.local.Subscribe(topic, handler)
}

func (b *NATSBroadcaster) relay(msg *nats.Msg) {
	topic := strings.TrimPrefix(msg.Subject, b.prefix+".")

	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("dropping undecodable NATS event")
		return
	}
	_ = b.local.Publish(context.Background(), topic, event)
}

// IsConnected reports whether the NATS connection is currently up
func (b *NATSBroadcaster) IsConnected() bool {
	return b.nc.IsConnected()
}

// Close drains the subscription and connection
func (b *NATSBroadcaster) Close() error {
	if b.sub != nil {
		if err := b.sub.Unsubscribe(); err != nil {
			log.Warn().Err(err).Msg("failed to unsubscribe from NATS")
		}
	}
	return b.nc.Drain()
}
