// Package proto defines the JSON envelopes of the realtime channel. Event
// names mirror the browser client's socket surface.
package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoin  = "join-room"
	InboundTypeLeave = "leave-room"
	InboundTypeCode  = "code-change"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventCodeUpdate       = "code-update"
	EventUserConnected    = "user-connected"
	EventUserPresent      = "user-present"
	EventUserDisconnected = "user-disconnected"
)

// JoinData requests to join a room. PeerID is the client's signaling address,
// sent once its own peer link is ready; Name is display-only.
type JoinData struct {
	Room   string `json:"room"`
	PeerID string `json:"peer_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// LeaveData requests to leave a room.
type LeaveData struct {
	Room string `json:"room"`
}

// CodeData is a code revision from the client.
type CodeData struct {
	Room string `json:"room"`
	Code string `json:"code"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// CodeUpdateData delivers another participant's code revision.
type CodeUpdateData struct {
	Room string `json:"room"`
	From string `json:"from"`
	Code string `json:"code"`
}

// PeerData describes a participant in membership and signaling events.
type PeerData struct {
	Room   string `json:"room"`
	ID     string `json:"id"`
	PeerID string `json:"peer_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
