package domain

import "encoding/json"

// Event types carried on the wire. The set is closed: the router drops
// anything outside it.
const (
	EventJoin         = "join"
	EventJoined       = "joined"
	EventDisconnected = "disconnected"
	EventCodeChange   = "code-change"
	EventSyncCode     = "sync-code"
	EventChatMessage  = "chat-message"
	EventTypingStart  = "typing-start"
	EventTypingStop   = "typing-stop"
	EventCursorMove   = "cursor-move"
	EventUserIdle     = "user-idle"
	EventUserActive   = "user-active"
	EventSyncOutput   = "sync-output"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage wraps a payload in an envelope and marshals the whole frame.
func NewMessage(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: eventType, Payload: raw})
}

// Member is one entry of the member list carried by a joined broadcast.
type Member struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
	MemberID     int    `json:"memberId"`
}

// JoinPayload is sent by a client to enter a room.
type JoinPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// JoinedPayload is broadcast to the whole room, joiner included, after
// every successful join. Members is the full list in join order.
type JoinedPayload struct {
	Members      []Member `json:"members"`
	Name         string   `json:"name"`
	ConnectionID string   `json:"connectionId"`
}

// CodeChangePayload carries a full document snapshot, no diffing. RoomID
// is set on inbound frames only; relayed frames carry just the code.
type CodeChangePayload struct {
	RoomID string `json:"roomId,omitempty"`
	Code   string `json:"code"`
}

// SyncCodePayload asks the server to deliver a snapshot to one specific
// connection, re-tagged as a code-change.
type SyncCodePayload struct {
	ConnectionID string `json:"connectionId"`
	Code         string `json:"code"`
}

// ChatMessagePayload is echoed to everyone in the room, sender included.
// Timestamp is relayed untouched, whatever shape the client sent.
type ChatMessagePayload struct {
	RoomID    string          `json:"roomId,omitempty"`
	Name      string          `json:"name"`
	Message   string          `json:"message"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

// TypingPayload backs both typing-start and typing-stop.
type TypingPayload struct {
	RoomID string `json:"roomId,omitempty"`
	Name   string `json:"name"`
}

// CursorMovePayload relays an editor cursor position. Position is opaque
// to the server; receivers key their overlays on ConnectionID, which the
// router fills in from the sender.
type CursorMovePayload struct {
	RoomID       string          `json:"roomId,omitempty"`
	Position     json.RawMessage `json:"position"`
	Name         string          `json:"name"`
	ConnectionID string          `json:"connectionId,omitempty"`
}

// PresencePayload backs user-idle and user-active. Inbound frames carry
// only the room; the router stamps the sender's connection id.
type PresencePayload struct {
	RoomID       string `json:"roomId,omitempty"`
	ConnectionID string `json:"connectionId,omitempty"`
}

// SyncOutputPayload keeps the shared run-output display consistent across
// the room.
type SyncOutputPayload struct {
	RoomID string `json:"roomId,omitempty"`
	Output string `json:"output"`
}

// DisconnectedPayload is emitted by the server when a member's transport
// closes, once per room the member belonged to.
type DisconnectedPayload struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
}
