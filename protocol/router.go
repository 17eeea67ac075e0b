package protocol

import (
	"encoding/json"
	"log/slog"

	"github.com/Harishpj26/code-colab/domain"
	"github.com/Harishpj26/code-colab/registry"
)

// Router applies a fixed per-event fan-out policy: broadcast to the rest
// of the room, broadcast to the whole room, or relay to one target. It
// owns the identity registry and the member-id counters; nothing else
// mutates them.
type Router struct {
	hub      domain.Broadcaster
	registry *registry.Registry
	counter  *registry.MemberCounter
}

func NewRouter(b domain.Broadcaster) *Router {
	return &Router{
		hub:      b,
		registry: registry.NewRegistry(),
		counter:  registry.NewMemberCounter(),
	}
}

func (r *Router) Handle(conn domain.Connection, data []byte) {
	var msg domain.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Warn("invalid message", "clientId", conn.ID(), "error", err)
		return
	}

	switch msg.Type {
	case domain.EventJoin:
		r.handleJoin(conn, msg.Payload)
	case domain.EventCodeChange:
		r.handleCodeChange(conn, msg.Payload)
	case domain.EventSyncCode:
		r.handleSyncCode(conn, msg.Payload)
	case domain.EventChatMessage:
		r.handleChat(conn, msg.Payload)
	case domain.EventTypingStart, domain.EventTypingStop:
		r.handleTyping(conn, msg.Type, msg.Payload)
	case domain.EventCursorMove:
		r.handleCursorMove(conn, msg.Payload)
	case domain.EventUserIdle, domain.EventUserActive:
		r.handlePresence(conn, msg.Type, msg.Payload)
	case domain.EventSyncOutput:
		r.handleSyncOutput(conn, msg.Payload)
	default:
		slog.Warn("unknown event type", "clientId", conn.ID(), "type", msg.Type)
	}
}

// Disconnect notifies every room the connection belonged to, then purges
// its registry entry. The name is looked up before deletion so departed
// members are still announced by name.
func (r *Router) Disconnect(conn domain.Connection) {
	identity, _ := r.registry.Get(conn.ID())

	for _, roomID := range r.hub.RoomsOf(conn.ID()) {
		data, err := domain.NewMessage(domain.EventDisconnected, domain.DisconnectedPayload{
			ConnectionID: conn.ID(),
			Name:         identity.Name,
		})
		if err != nil {
			slog.Warn("marshal error", "clientId", conn.ID(), "error", err)
			continue
		}
		r.hub.Broadcast(roomID, data, conn.ID())
	}

	r.registry.Remove(conn.ID())
	r.hub.Unregister(conn)
}

func (r *Router) handleJoin(conn domain.Connection, payload json.RawMessage) {
	var p domain.JoinPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		slog.Warn("dropping malformed join", "clientId", conn.ID())
		return
	}

	memberID := r.counter.Next(p.RoomID)
	r.registry.Put(conn.ID(), p.Name, memberID)
	r.hub.Join(conn, p.RoomID)

	data, err := domain.NewMessage(domain.EventJoined, domain.JoinedPayload{
		Members:      r.memberList(p.RoomID),
		Name:         p.Name,
		ConnectionID: conn.ID(),
	})
	if err != nil {
		slog.Warn("marshal error", "clientId", conn.ID(), "error", err)
		return
	}
	r.hub.Broadcast(p.RoomID, data, "")
}

func (r *Router) handleCodeChange(conn domain.Connection, payload json.RawMessage) {
	var p domain.CodeChangePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		slog.Warn("dropping malformed code-change", "clientId", conn.ID())
		return
	}
	r.relay(conn, p.RoomID, domain.EventCodeChange, domain.CodeChangePayload{Code: p.Code})
}

// handleSyncCode relays a document snapshot to exactly one connection,
// re-tagged as a code-change. Several members may answer the same joined
// broadcast; whichever delivery the target's editor processes last wins.
func (r *Router) handleSyncCode(conn domain.Connection, payload json.RawMessage) {
	var p domain.SyncCodePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.ConnectionID == "" {
		slog.Warn("dropping malformed sync-code", "clientId", conn.ID())
		return
	}

	data, err := domain.NewMessage(domain.EventCodeChange, domain.CodeChangePayload{Code: p.Code})
	if err != nil {
		slog.Warn("marshal error", "clientId", conn.ID(), "error", err)
		return
	}
	r.hub.Send(p.ConnectionID, data)
}

func (r *Router) handleChat(conn domain.Connection, payload json.RawMessage) {
	var p domain.ChatMessagePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		slog.Warn("dropping malformed chat-message", "clientId", conn.ID())
		return
	}

	// Sender included: every client renders the message in the same
	// delivery order, its own echoes included.
	data, err := domain.NewMessage(domain.EventChatMessage, domain.ChatMessagePayload{
		Name:      p.Name,
		Message:   p.Message,
		Timestamp: p.Timestamp,
	})
	if err != nil {
		slog.Warn("marshal error", "clientId", conn.ID(), "error", err)
		return
	}
	r.hub.Broadcast(p.RoomID, data, "")
}

func (r *Router) handleTyping(conn domain.Connection, eventType string, payload json.RawMessage) {
	var p domain.TypingPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		slog.Warn("dropping malformed typing event", "clientId", conn.ID())
		return
	}
	r.relay(conn, p.RoomID, eventType, domain.TypingPayload{Name: p.Name})
}

func (r *Router) handleCursorMove(conn domain.Connection, payload json.RawMessage) {
	var p domain.CursorMovePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		slog.Warn("dropping malformed cursor-move", "clientId", conn.ID())
		return
	}
	r.relay(conn, p.RoomID, domain.EventCursorMove, domain.CursorMovePayload{
		Position:     p.Position,
		Name:         p.Name,
		ConnectionID: conn.ID(),
	})
}

func (r *Router) handlePresence(conn domain.Connection, eventType string, payload json.RawMessage) {
	var p domain.PresencePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		slog.Warn("dropping malformed presence event", "clientId", conn.ID())
		return
	}
	r.relay(conn, p.RoomID, eventType, domain.PresencePayload{ConnectionID: conn.ID()})
}

func (r *Router) handleSyncOutput(conn domain.Connection, payload json.RawMessage) {
	var p domain.SyncOutputPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		slog.Warn("dropping malformed sync-output", "clientId", conn.ID())
		return
	}

	data, err := domain.NewMessage(domain.EventSyncOutput, domain.SyncOutputPayload{Output: p.Output})
	if err != nil {
		slog.Warn("marshal error", "clientId", conn.ID(), "error", err)
		return
	}
	r.hub.Broadcast(p.RoomID, data, "")
}

// relay broadcasts an event to everyone in the room except the sender.
func (r *Router) relay(conn domain.Connection, roomID, eventType string, payload any) {
	data, err := domain.NewMessage(eventType, payload)
	if err != nil {
		slog.Warn("marshal error", "clientId", conn.ID(), "error", err)
		return
	}
	r.hub.Broadcast(roomID, data, conn.ID())
}

func (r *Router) memberList(roomID string) []domain.Member {
	conns := r.hub.Members(roomID)
	members := make([]domain.Member, 0, len(conns))
	for _, c := range conns {
		identity, _ := r.registry.Get(c.ID())
		members = append(members, domain.Member{
			ConnectionID: c.ID(),
			Name:         identity.Name,
			MemberID:     identity.MemberID,
		})
	}
	return members
}
