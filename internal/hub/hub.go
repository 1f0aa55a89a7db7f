package hub

import (
	"encoding/json"
	"strconv"
	"sync"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single subscriber connection.
// It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

// Topic names used across the application.
const (
	// TopicInterest carries ledger change events; the most-interested panel
	// re-fetches its ranking when one arrives.
	TopicInterest = "interest"
)

// NotificationTopic returns the per-user topic for new notifications.
func NotificationTopic(userID uint) string {
	return "notifications:" + strconv.FormatUint(uint64(userID), 10)
}

// Hub manages all active topics and their clients.
type Hub struct {
	topics map[string]map[Client]bool
	mu     sync.RWMutex
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[Client]bool),
	}
}

// Subscribe adds a new client to a specific topic.
func (h *Hub) Subscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[Client]bool)
	}
	h.topics[topic][client] = true
}

// Unsubscribe removes a client from a topic.
func (h *Hub) Unsubscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.topics[topic]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Close the channel to signal the SSE handler to stop.
			if len(clients) == 0 {
				delete(h.topics, topic)
			}
		}
	}
}

// Broadcast sends an event to all clients subscribed to a topic.
func (h *Hub) Broadcast(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.topics[topic]; ok {
		messageBytes, err := json.Marshal(event)
		if err != nil {
			return
		}

		for client := range clients {
			// Use a non-blocking send to prevent a slow client from blocking the hub.
			select {
			case client <- messageBytes:
			default:
				// Client channel is full, maybe they are disconnected or slow.
				// The unsubscribe logic will handle cleaning this up eventually.
			}
		}
	}
}
