package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Driver selects the broadcast transport.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverNATS   Driver = "nats"
)

// Config holds configuration for the draft gateway service
type Config struct {
	Driver           Driver
	ConnectionConfig ConnectionConfig
	NATSConfig       NATSConfig
}

// DefaultConfig returns default configuration for the draft gateway
func DefaultConfig() Config {
	return Config{
		Driver:           DriverMemory,
		ConnectionConfig: DefaultConnectionConfig(),
		NATSConfig:       DefaultNATSConfig(),
	}
}

// Service owns the broadcaster and the WebSocket rooms fed by it
type Service struct {
	hub               *Hub
	broadcaster       Broadcaster
	natsBroadcaster   *NATSBroadcaster
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
}

// NewService creates a new draft gateway service
func NewService(config Config) (*Service, error) {
	hub := NewHub()
	s := &Service{
		hub:         hub,
		broadcaster: hub,
	}

	switch config.Driver {
	case DriverMemory, "":
	case DriverNATS:
		nb, err := NewNATSBroadcaster(config.NATSConfig, hub)
		if err != nil {
			return nil, fmt.Errorf("failed to create NATS broadcaster: %w", err)
		}
		s.natsBroadcaster = nb
		s.broadcaster = nb
	default:
		return nil, fmt.Errorf("unknown broadcast driver %q", config.Driver)
	}

	s.connectionManager = NewConnectionManager(s.broadcaster, config.ConnectionConfig)
	s.wsHandler = NewWebSocketHandler(s.connectionManager)
	return s, nil
}

// Broadcaster is what publishers should use
func (s *Service) Broadcaster() Broadcaster {
	return s.broadcaster
}

// Start runs the connection manager until ctx is done
func (s *Service) Start(ctx context.Context) {
	log.Info().Msg("starting draft gateway service")
	s.connectionManager.Start(ctx)
}

// Stop closes the transport
func (s *Service) Stop() error {
	if s.natsBroadcaster != nil {
		if err := s.natsBroadcaster.Close(); err != nil {
			return fmt.Errorf("close NATS broadcaster: %w", err)
		}
	}
	log.Info().Msg("draft gateway service stopped")
	return nil
}

// TransportConnected reports whether the broadcast transport is up. The
// in-memory hub is always up; the second result is false when there is no
// external transport.
func (s *Service) TransportConnected() (connected, external bool) {
	if s.natsBroadcaster == nil {
		return true, false
	}
	return s.natsBroadcaster.IsConnected(), true
}

// RegisterRoutes registers the WebSocket HTTP routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	log.Info().Msg("draft gateway routes registered")
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}
