package hub

import (
	"log/slog"
	"sync"

	"github.com/Harishpj26/code-colab/domain"
)

type room struct {
	order   []string
	clients map[string]domain.Connection
}

func (r *room) add(conn domain.Connection) {
	if _, ok := r.clients[conn.ID()]; ok {
		return
	}
	r.clients[conn.ID()] = conn
	r.order = append(r.order, conn.ID())
}

func (r *room) remove(connID string) {
	if _, ok := r.clients[connID]; !ok {
		return
	}
	delete(r.clients, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Hub tracks live connections and their room memberships. One connection
// may be in several rooms; per-room member order is join order.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]domain.Connection
	rooms map[string]*room
}

func New() *Hub {
	return &Hub{
		conns: make(map[string]domain.Connection),
		rooms: make(map[string]*room),
	}
}

func (h *Hub) Register(conn domain.Connection) {
	h.mu.Lock()
	h.conns[conn.ID()] = conn
	count := len(h.conns)
	h.mu.Unlock()

	slog.Info("client connected", "clientId", conn.ID(), "clients", count)
}

// Unregister removes the connection from every room it joined. An empty
// room is deleted so the rooms table tracks live membership only.
func (h *Hub) Unregister(conn domain.Connection) {
	h.mu.Lock()
	delete(h.conns, conn.ID())
	for roomID, r := range h.rooms {
		r.remove(conn.ID())
		if len(r.clients) == 0 {
			delete(h.rooms, roomID)
			slog.Info("room removed", "room", roomID)
		}
	}
	count := len(h.conns)
	h.mu.Unlock()

	slog.Info("client disconnected", "clientId", conn.ID(), "clients", count)
}

func (h *Hub) Join(conn domain.Connection, roomID string) {
	h.mu.Lock()
	r, exists := h.rooms[roomID]
	if !exists {
		r = &room{clients: make(map[string]domain.Connection)}
		h.rooms[roomID] = r
	}
	r.add(conn)
	count := len(r.clients)
	h.mu.Unlock()

	slog.Info("client joined room", "room", roomID, "clientId", conn.ID(), "members", count)
}

// Broadcast delivers data to every member of the room except excludeID.
// Pass an empty excludeID to include everyone. An unknown room is a no-op.
func (h *Hub) Broadcast(roomID string, data []byte, excludeID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, exists := h.rooms[roomID]
	if !exists {
		return
	}

	for _, id := range r.order {
		if id == excludeID {
			continue
		}
		if err := r.clients[id].Send(data); err != nil {
			// The connection's own pumps notice the stall and run the
			// disconnect path; nothing to clean up here.
			slog.Debug("send failed during broadcast", "room", roomID, "clientId", id, "error", err)
		}
	}
}

// Send delivers data to one connection by id. A departed connection is
// silently dropped.
func (h *Hub) Send(connID string, data []byte) {
	h.mu.RLock()
	conn, exists := h.conns[connID]
	h.mu.RUnlock()

	if !exists {
		return
	}
	if err := conn.Send(data); err != nil {
		slog.Debug("send failed", "clientId", connID, "error", err)
	}
}

// Members returns the room's connections in join order.
func (h *Hub) Members(roomID string) []domain.Connection {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, exists := h.rooms[roomID]
	if !exists {
		return nil
	}

	members := make([]domain.Connection, 0, len(r.order))
	for _, id := range r.order {
		members = append(members, r.clients[id])
	}
	return members
}

// RoomsOf returns the ids of every room the connection has joined.
func (h *Hub) RoomsOf(connID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var rooms []string
	for roomID, r := range h.rooms {
		if _, ok := r.clients[connID]; ok {
			rooms = append(rooms, roomID)
		}
	}
	return rooms
}

func (h *Hub) Stats() (rooms, clients int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms), len(h.conns)
}
