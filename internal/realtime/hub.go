package realtime

import (
	"sync"
)

// Client represents a single live session.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub is the registry of live sessions. Activity events are fanned out to
// every connected session regardless of which session caused the mutation.
// Construct one per process and inject it; there is no package-level state.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[Client]struct{})}
}

// Register adds a session.
func (h *Hub) Register(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

// Unregister removes a session. Safe to call for a session that was never
// registered or was already removed.
func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every connected session. It iterates over a
// snapshot so register/unregister may proceed while a push is in flight. A
// failed send never blocks the remaining sessions; the ws handler cleans up
// the dead connection on its side.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	snapshot := make([]Client, 0, len(h.clients))
	for c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	for _, c := range snapshot {
		if ok := c.Send(message); !ok {
			// client write failed; let the handler clean it up on its side
		}
	}
}
