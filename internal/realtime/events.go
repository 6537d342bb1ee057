// file: internal/realtime/events.go
// version: 2.0.1
// guid: 9e8d7f6a-5c4b-3a21-0f9e-8d7c6b5a4392

package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdfalk/dashboard-search/internal/dataset"
	ulid "github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// EventType defines the type of real-time event
type EventType string

const (
	EventDatasetLoaded  EventType = "dataset.loaded"
	EventDatasetRemoved EventType = "dataset.removed"
	EventConnected      EventType = "connection.established"
	EventHeartbeat      EventType = "heartbeat"
	EventSystemShutdown EventType = "system.shutdown"
)

const (
	heartbeatInterval    = 15 * time.Second
	clientBufferCapacity = 100
)

// Event represents a real-time event to send to clients
type Event struct {
	Type      EventType      `json:"type"`
	Dataset   string         `json:"dataset,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Client represents a connected SSE client
type Client struct {
	ID       string
	Channel  chan *Event
	datasets map[string]bool // datasets this client is interested in; empty means all
	mu       sync.RWMutex
}

// NewClient creates a new SSE client
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Channel:  make(chan *Event, clientBufferCapacity),
		datasets: make(map[string]bool),
	}
}

// Subscribe limits the client to events about the named dataset (additive)
func (c *Client) Subscribe(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets[name] = true
}

// Wants reports whether the client should receive an event
func (c *Client) Wants(event *Event) bool {
	if event.Dataset == "" {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.datasets) == 0 || c.datasets[event.Dataset]
}

// EventHub manages SSE connections and event distribution
type EventHub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     *zap.Logger
}

// NewEventHub creates a new event hub. A nil logger discards output.
func NewEventHub(log *zap.Logger) *EventHub {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventHub{
		clients: make(map[string]*Client),
		log:     log,
	}
}

// RegisterClient registers a new client
func (h *EventHub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.log.Debug("sse client registered", zap.String("client", client.ID), zap.Int("clients", len(h.clients)))
}

// UnregisterClient removes a client
func (h *EventHub) UnregisterClient(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, exists := h.clients[clientID]; exists {
		close(client.Channel)
		delete(h.clients, clientID)
		h.log.Debug("sse client unregistered", zap.String("client", clientID), zap.Int("clients", len(h.clients)))
	}
}

// Broadcast sends an event to every interested client. Slow clients with a
// full buffer miss the event.
func (h *EventHub) Broadcast(event *Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, client := range h.clients {
		if !client.Wants(event) {
			continue
		}
		select {
		case client.Channel <- event:
			count++
		default:
			h.log.Warn("sse client buffer full, dropping event",
				zap.String("client", client.ID), zap.String("type", string(event.Type)))
		}
	}
	return count
}

// DatasetChanged forwards store changes to subscribers
func (h *EventHub) DatasetChanged(name string, action dataset.Action, size int) {
	eventType := EventDatasetLoaded
	if action == dataset.ActionRemoved {
		eventType = EventDatasetRemoved
	}
	h.Broadcast(&Event{
		Type:      eventType,
		Dataset:   name,
		Timestamp: time.Now(),
		Data:      map[string]any{"size": size},
	})
}

// Close sends a shutdown event to every client and disconnects them.
// Buffered events are still delivered before each stream ends.
func (h *EventHub) Close(message string) {
	h.Broadcast(&Event{
		Type:      EventSystemShutdown,
		Timestamp: time.Now(),
		Data:      map[string]any{"message": message},
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		close(client.Channel)
		delete(h.clients, id)
	}
}

// GetClientCount returns the number of connected clients
func (h *EventHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleSSE handles Server-Sent Events connection. Clients may pass
// ?dataset=name (repeatable) to narrow the stream.
func (h *EventHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache, no-transform")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	client := NewClient(ulid.Make().String())
	for _, name := range c.QueryArray("dataset") {
		client.Subscribe(name)
	}

	h.RegisterClient(client)
	defer h.UnregisterClient(client.ID)

	if err := writeEvent(c, &Event{
		Type:      EventConnected,
		Timestamp: time.Now(),
		Data:      map[string]any{"client_id": client.ID},
	}); err != nil {
		return
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event, ok := <-client.Channel:
			if !ok {
				return
			}
			if err := writeEvent(c, event); err != nil {
				h.log.Debug("sse write failed", zap.String("client", client.ID), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := writeEvent(c, &Event{Type: EventHeartbeat, Timestamp: time.Now()}); err != nil {
				return
			}
		}
	}
}

// writeEvent writes one SSE frame: data: {json}\n\n
func writeEvent(c *gin.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}
