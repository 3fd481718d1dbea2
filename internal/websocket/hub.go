// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/vericapture/vericapture/internal/logging"
	"github.com/vericapture/vericapture/internal/metrics"
	"github.com/vericapture/vericapture/internal/models"
)

// Message types pushed over the live feed
const (
	MessageTypePostCreated = "post.created"
	MessageTypePostDeleted = "post.deleted"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
)

// Message represents a live feed WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active live feed clients and broadcasts
// new post events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// String identifies the hub in supervisor logs.
func (h *Hub) String() string { return "live-feed-hub" }

// Serve runs the hub under suture supervision until the context is
// canceled, then closes all clients and returns ctx.Err().
//
// Selection is priority ordered so behavior stays predictable when
// multiple channels are ready at once:
//   - Priority 1: context cancellation (shutdown)
//   - Priority 2: client lifecycle events (Register/Unregister)
//   - Priority 3: broadcast messages
func (h *Hub) Serve(ctx context.Context) error {
	for {
		// Priority 1: check for shutdown (non-blocking)
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: client lifecycle events (non-blocking check)
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
			// No lifecycle events pending
		}

		// Priority 3: broadcast messages or wait for any event (blocking)
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.addClient(client)

		case client := <-h.Unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("live feed client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("live feed client disconnected")
}

// shutdown closes all connected clients and logs the reason.
// ctx.Err() is not logged as an error because cancellation is the
// normal graceful shutdown path.
func (h *Hub) shutdown(ctx context.Context) {
	clientCount := h.ClientCount()
	h.closeAllClients()

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}

	logging.Info().
		Str("component", "live-feed-hub").
		Str("reason", reason).
		Int("clients_closed", clientCount).
		Msg("live feed hub stopped")
}

// broadcastToClients sends a message to all connected clients in a
// deterministic order. Clients are sorted by ID so delivery order is
// reproducible; a client with a full send buffer is dropped.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			// Channel full or closed, mark for removal
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WebSocketConnections.Set(float64(len(h.clients)))
	metrics.WebSocketBroadcasts.Inc()
}

// closeAllClients closes connected clients in ID order during shutdown.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WebSocketConnections.Set(0)
	logging.Info().Msg("closed all live feed clients during shutdown")
}

// BroadcastPost pushes a newly created post to all connected clients.
// The post is serialized as-is, so callers must pass the stored document.
func (h *Hub) BroadcastPost(post *models.Post) {
	message := Message{
		Type: MessageTypePostCreated,
		Data: post,
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("post_id", post.ID).Msg("broadcast channel full, dropping post message")
	}
}

// BroadcastPostDeleted notifies clients that a post was removed from the feed.
func (h *Hub) BroadcastPostDeleted(postID string) {
	message := Message{
		Type: MessageTypePostDeleted,
		Data: map[string]string{"id": postID},
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("post_id", postID).Msg("broadcast channel full, dropping delete message")
	}
}

// BroadcastJSON sends an arbitrary typed message to all connected clients
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping JSON message")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
