package websocket

import (
	"sync"

	"github.com/piresc/intranet-notify/internal/pkg/models"
)

const noBranch = "none"

// Registry is the set of live connections.
// The lock is never held while writing to a connection.
type Registry struct {
	mu      sync.RWMutex
	clients map[Transport]*Client
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{clients: make(map[Transport]*Client)}
}

// Register adds client. It returns false if its transport is already registered.
func (r *Registry) Register(client *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[client.conn]; exists {
		return false
	}
	r.clients[client.conn] = client
	return true
}

// Unregister removes client. Removing an absent client is a no-op returning false.
func (r *Registry) Unregister(client *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, exists := r.clients[client.conn]; !exists || current != client {
		return false
	}
	delete(r.clients, client.conn)
	return true
}

// Snapshot returns a copy of the registered clients
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out
}

// Len returns the number of registered clients
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Stats counts registered clients per branch
func (r *Registry) Stats() models.ConnectionStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := models.ConnectionStats{
		Total:    len(r.clients),
		ByBranch: make(map[string]int),
	}
	for _, c := range r.clients {
		branch := c.Identity.Branch
		if branch == "" {
			branch = noBranch
		}
		stats.ByBranch[branch]++
	}
	return stats
}
