package core

// CommandKind describes what the participant wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the participant to a room.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom unsubscribes the participant from a room.
	CommandLeaveRoom
	// CommandCodeChange relays a code revision to room peers.
	CommandCodeChange
)

// Command represents an action requested by a participant.
type Command struct {
	Kind CommandKind
	Room string

	// Join fields. The signaling address and display name travel with the
	// join because the client only joins once its own peer link is ready.
	SignalAddr string
	Name       string

	// Code change payload.
	Code string
}
