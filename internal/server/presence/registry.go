// Package presence tracks which users are currently logged in and where
// their push notifications should be sent. Entries are ephemeral: they are
// rebuilt on every login and the whole registry is empty after a restart.
package presence

import (
	"net"
	"sync"
)

// Registry maps a username to the UDP endpoint registered at login. It is
// safe for concurrent use by any number of in-flight command handlers.
// At most one entry exists per username; Set overwrites the previous one, so
// only the most recent login receives pushes.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*net.UDPAddr
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*net.UDPAddr)}
}

// Set inserts or overwrites the endpoint for a username.
func (r *Registry) Set(username string, addr *net.UDPAddr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[username] = addr
}

// Lookup returns the registered endpoint and whether the user is online.
func (r *Registry) Lookup(username string) (*net.UDPAddr, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addr, ok := r.entries[username]
	return addr, ok
}

// Remove drops the entry for a username. Removing an absent user is a no-op.
func (r *Registry) Remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, username)
}

// Len reports the number of online users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
