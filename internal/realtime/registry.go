package realtime

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Registry maps principal identifiers to live connections and decides fan-out
// eligibility. It carries no ordering or durability guarantees; a recipient
// without a live connection simply isn't pushed to.
//
// One implementation serves both user and moderator traffic as separate
// instances rather than two divergent singletons.
type Registry interface {
	Register(id string, client *Client)
	Unregister(id string, client *Client)
	Send(id string, msg *Message) bool
	Broadcast(msg *Message) int
	Online(id string) bool
}

// Hub is the in-memory Registry implementation. State is rebuilt from nothing
// on process restart.
type Hub struct {
	name   string
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	sent    atomic.Int64
	dropped atomic.Int64
}

// NewHub creates a named registry instance.
func NewHub(name string, logger *zap.Logger) *Hub {
	return &Hub{
		name:    name,
		logger:  logger,
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register adds a connection under the given identifier. An identifier may
// hold several connections (multiple tabs).
func (h *Hub) Register(id string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[id] == nil {
		h.clients[id] = make(map[*Client]struct{})
	}
	h.clients[id][client] = struct{}{}
	h.logger.Debug("client registered", zap.String("registry", h.name), zap.String("id", id))
}

// Unregister removes a connection; the identifier disappears with its last
// connection.
func (h *Hub) Unregister(id string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[id]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.clients, id)
		}
	}
	h.logger.Debug("client unregistered", zap.String("registry", h.name), zap.String("id", id))
}

// Send pushes an envelope to every connection of the identifier. Returns
// whether at least one connection accepted it.
func (h *Hub) Send(id string, msg *Message) bool {
	h.mu.RLock()
	set, ok := h.clients[id]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if !ok {
		return false
	}

	delivered := false
	for _, client := range clients {
		if client.Enqueue(msg) {
			h.sent.Add(1)
			delivered = true
		} else {
			h.dropped.Add(1)
		}
	}
	return delivered
}

// Broadcast pushes an envelope to every registered connection and returns the
// number of identifiers reached.
func (h *Hub) Broadcast(msg *Message) int {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	reached := 0
	for _, id := range ids {
		if h.Send(id, msg) {
			reached++
		}
	}
	return reached
}

// Online reports whether the identifier has at least one live connection.
func (h *Hub) Online(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set, ok := h.clients[id]
	return ok && len(set) > 0
}
