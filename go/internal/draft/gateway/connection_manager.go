package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Client actions accepted over the socket.
const (
	ActionJoinDraft  = "join-draft"
	ActionLeaveDraft = "leave-draft"

	ackJoined = "joined-draft"
	ackLeft   = "left-draft"
)

// ConnectionManager manages WebSocket connections and the draft rooms they join
type ConnectionManager struct {
	hub Broadcaster

	mu    sync.RWMutex
	conns map[*Connection]bool
	rooms map[string]*room

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan BroadcastMessage
}

type room struct {
	members map[*Connection]bool
	sub     Subscription
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	ID          string
	UserID      string
	Conn        *websocket.Conn
	Send        chan []byte
	Manager     *ConnectionManager
	ConnectedAt time.Time

	// guarded by Manager.mu
	topics map[string]bool
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// BroadcastMessage is an event queued for delivery to a room
type BroadcastMessage struct {
	Topic string
	Event Event
}

type clientMessage struct {
	Action  string `json:"action"`
	DraftID string `json:"draft_id"`
}

type ack struct {
	Event string `json:"event"`
	Topic string `json:"topic"`
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewConnectionManager creates a connection manager that relays hub events to joined sockets
func NewConnectionManager(hub Broadcaster, config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		hub:   hub,
		conns: make(map[*Connection]bool),
		rooms: make(map[string]*room),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan BroadcastMessage, 1000),
	}
}

// Start processes queued broadcasts until ctx is done
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			cm.closeAll()
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and optionally joins a draft room
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, userID, draftID string) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		UserID:      userID,
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBufferSize),
		Manager:     cm,
		ConnectedAt: time.Now(),
		topics:      make(map[string]bool),
	}

	cm.mu.Lock()
	cm.conns[connection] = true
	cm.mu.Unlock()

	if draftID != "" {
		cm.join(connection, draftID)
	}

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("user_id", userID).
		Msg("WebSocket connection established")

	return nil
}

func (cm *ConnectionManager) join(conn *Connection, draftID string) {
	topic := DraftTopic(draftID)

	cm.mu.Lock()
	if !cm.conns[conn] {
		cm.mu.Unlock()
		return
	}
	rm, ok := cm.rooms[topic]
	if !ok {
		rm = &room{members: make(map[*Connection]bool)}
		rm.sub = cm.hub.Subscribe(topic, func(ev Event) {
			cm.enqueue(BroadcastMessage{Topic: topic, Event: ev})
		})
		cm.rooms[topic] = rm
	}
	rm.members[conn] = true
	conn.topics[topic] = true
	members := len(rm.members)
	cm.mu.Unlock()

	conn.sendJSON(ack{Event: ackJoined, Topic: topic})

	log.Debug().
		Str("connection_id", conn.ID).
		Str("topic", topic).
		Int("members", members).
		Msg("joined draft room")
}

func (cm *ConnectionManager) leave(conn *Connection, draftID string) {
	topic := DraftTopic(draftID)

	cm.mu.Lock()
	cm.leaveLocked(conn, topic)
	cm.mu.Unlock()

	conn.sendJSON(ack{Event: ackLeft, Topic: topic})
}

func (cm *ConnectionManager) leaveLocked(conn *Connection, topic string) {
	delete(conn.topics, topic)
	rm, ok := cm.rooms[topic]
	if !ok {
		return
	}
	delete(rm.members, conn)
	if len(rm.members) == 0 {
		rm.sub.Unsubscribe()
		delete(cm.rooms, topic)
	}
}

// unregisterConnection removes a connection from every room. Safe to call twice.
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if !cm.conns[conn] {
		return
	}
	for topic := range conn.topics {
		cm.leaveLocked(conn, topic)
	}
	delete(cm.conns, conn)
	close(conn.Send)

	log.Info().
		Str("connection_id", conn.ID).
		Str("user_id", conn.UserID).
		Msg("connection unregistered")
}

func (cm *ConnectionManager) closeAll() {
	cm.mu.RLock()
	conns := make([]*Connection, 0, len(cm.conns))
	for c := range cm.conns {
		conns = append(conns, c)
	}
	cm.mu.RUnlock()

	for _, c := range conns {
		cm.unregisterConnection(c)
	}
}

func (cm *ConnectionManager) enqueue(message BroadcastMessage) {
	select {
	case cm.broadcastCh <- message:
	default:
		log.Warn().Str("topic", message.Topic).Msg("broadcast channel full, dropping message")
	}
}

// handleBroadcast delivers one event to every member of its room
func (cm *ConnectionManager) handleBroadcast(message BroadcastMessage) {
	cm.mu.RLock()
	rm, exists := cm.rooms[message.Topic]
	if !exists {
		cm.mu.RUnlock()
		return
	}
	targets := make([]*Connection, 0, len(rm.members))
	for conn := range rm.members {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	eventData, err := json.Marshal(message.Event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, conn := range targets {
		if !conn.trySend(eventData) {
			log.Warn().
				Str("connection_id", conn.ID).
				Str("user_id", conn.UserID).
				Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
			conn.Conn.Close()
		}
	}

	log.Debug().
		Str("event", message.Event.Name).
		Str("topic", message.Topic).
		Int("connections", len(targets)).
		Msg("event broadcasted")
}

// ConnectionStats summarizes open sockets and rooms
type ConnectionStats struct {
	TotalConnections int            `json:"total_connections"`
	ActiveDrafts     int            `json:"active_drafts"`
	DraftConnections map[string]int `json:"draft_connections"`
}

func (cm *ConnectionManager) GetConnectionStats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := ConnectionStats{
		TotalConnections: len(cm.conns),
		ActiveDrafts:     len(cm.rooms),
		DraftConnections: make(map[string]int, len(cm.rooms)),
	}
	for topic, rm := range cm.rooms {
		stats.DraftConnections[topic] = len(rm.members)
	}
	return stats
}

// trySend queues data without blocking. It reports false when the buffer is
// full; a closed connection silently drops the message.
func (c *Connection) trySend(data []byte) (ok bool) {
	c.Manager.mu.RLock()
	defer c.Manager.mu.RUnlock()

	if !c.Manager.conns[c] {
		return true
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Connection) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.trySend(data)
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles join/leave commands from the client
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

func (c *Connection) handleClientMessage(message []byte) {
	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil || msg.DraftID == "" {
		log.Debug().
			Str("connection_id", c.ID).
			Bytes("message", message).
			Msg("ignoring malformed client message")
		return
	}

	switch msg.Action {
	case ActionJoinDraft:
		c.Manager.join(c, msg.DraftID)
	case ActionLeaveDraft:
		c.Manager.leave(c, msg.DraftID)
	default:
		log.Debug().
			Str("connection_id", c.ID).
			Str("action", msg.Action).
			Msg("unknown client action")
	}
}
