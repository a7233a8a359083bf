package core

// EventKind is a notification the core emits to participants.
type EventKind int

const (
	// EventCodeUpdate carries a code revision from another participant.
	EventCodeUpdate EventKind = iota
	// EventPeerJoined notifies existing members that a participant joined.
	EventPeerJoined
	// EventPeerPresent tells a newcomer about one participant already in the room.
	EventPeerPresent
	// EventPeerLeft notifies remaining members that a participant left.
	EventPeerLeft
	// EventError notifies a participant about a protocol-level error.
	EventError
)

// PeerInfo identifies a participant for signaling purposes. SignalAddr is the
// address the out-of-band peer layer dials; it may be empty when the client
// joined before its own peer link was ready.
type PeerInfo struct {
	ID         string
	SignalAddr string
	Name       string
}

// Event is sent to participants to describe what happened in a room.
type Event struct {
	Kind  EventKind
	Room  string
	From  string // originating participant ID for code updates
	Code  string
	Peer  *PeerInfo // non-nil for peer events
	Error *CoreError
}
