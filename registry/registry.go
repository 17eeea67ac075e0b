// Package registry holds the application-level identity attached to each
// live connection: the display name supplied at join and the per-room
// member ordinal. State is in-memory and lives for the process lifetime.
package registry

import "sync"

// Identity is what the registry knows about one connection.
type Identity struct {
	Name     string
	MemberID int
}

// Registry maps connection ids to identities. Operations on absent keys
// are no-ops; a Get miss yields the zero Identity so callers can still
// render a generic label.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Identity
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Identity)}
}

func (r *Registry) Put(connID, name string, memberID int) {
	r.mu.Lock()
	r.entries[connID] = Identity{Name: name, MemberID: memberID}
	r.mu.Unlock()
}

func (r *Registry) Get(connID string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.entries[connID]
	return id, ok
}

func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	delete(r.entries, connID)
	r.mu.Unlock()
}

// MemberCounter mints per-room member ordinals. The first join to a room
// gets 1; ids strictly increase and are never reused, so a rejoining user
// is distinguishable from their prior session. Counters are never evicted,
// even when a room empties: eviction would restart the sequence and hand
// out a duplicate ordinal on refill.
type MemberCounter struct {
	mu   sync.Mutex
	next map[string]int
}

func NewMemberCounter() *MemberCounter {
	return &MemberCounter{next: make(map[string]int)}
}

func (c *MemberCounter) Next(roomID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.next[roomID]
	if !ok {
		id = 1
	}
	c.next[roomID] = id + 1
	return id
}
