// Package health reports whether the process can serve drafts.
package health

import (
	"context"
	"fmt"
	"time"
)

type Status struct {
	Healthy           bool      `json:"healthy"`
	Timestamp         time.Time `json:"timestamp"`
	Uptime            float64   `json:"uptime"`
	DatabaseConnected bool      `json:"database_connected"`
	NATSConnected     *bool     `json:"nats_connected,omitempty"`
	ActiveSyncs       int       `json:"active_syncs"`
	Errors            []string  `json:"errors"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Transport reports the broadcast transport state.
type Transport interface {
	TransportConnected() (connected, external bool)
}

// SyncCounter lists running draft syncs.
type SyncCounter interface {
	ActiveSyncs() []string
}

type Checker struct {
	db        Pinger
	transport Transport
	syncs     SyncCounter
	startedAt time.Time
	now       func() time.Time
}

func NewChecker(db Pinger, transport Transport, syncs SyncCounter, startedAt time.Time) *Checker {
	return &Checker{
		db:        db,
		transport: transport,
		syncs:     syncs,
		startedAt: startedAt,
		now:       time.Now,
	}
}

func (h *Checker) Check(ctx context.Context) Status {
	now := h.now()
	status := Status{
		Healthy:     true,
		Timestamp:   now.UTC(),
		Uptime:      now.Sub(h.startedAt).Seconds(),
		ActiveSyncs: len(h.syncs.ActiveSyncs()),
		Errors:      []string{},
	}

	// Check database connection
	if err := h.db.PingContext(ctx); err != nil {
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("database ping failed: %v", err))
	} else {
		status.DatabaseConnected = true
	}

	// Check NATS connection
	if connected, external := h.transport.TransportConnected(); external {
		status.NATSConnected = &connected
		if !connected {
			status.Healthy = false
			status.Errors = append(status.Errors, "NATS disconnected")
		}
	}

	return status
}
