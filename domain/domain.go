package domain

// Connection is a single participant's transport endpoint.
type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Broadcaster tracks which connections belong to which rooms and provides
// the delivery primitives the router fans out through. A connection may
// belong to several rooms at once; membership is join-ordered per room.
type Broadcaster interface {
	Register(conn Connection)
	Unregister(conn Connection)
	Join(conn Connection, roomID string)
	Broadcast(roomID string, data []byte, excludeID string)
	Send(connID string, data []byte)
	Members(roomID string) []Connection
	RoomsOf(connID string) []string
	Stats() (rooms, clients int)
}

// MessageHandler processes inbound frames and the transport's disconnect
// notification. No further events are routed for a connection once its
// Disconnect has been called.
type MessageHandler interface {
	Handle(conn Connection, data []byte)
	Disconnect(conn Connection)
}
