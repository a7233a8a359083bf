package core

import (
	"encoding/json"

	"github.com/avdeev/codepair-server/internal/backplane"
)

// Wire form of an event crossing the backplane. Only events that other
// instances can act on are bridged; errors and the at-join replay stay local.
type frameEvent struct {
	Type string     `json:"type"` // "code-update", "peer-joined", "peer-left"
	From string     `json:"from,omitempty"`
	Code string     `json:"code,omitempty"`
	Peer *framePeer `json:"peer,omitempty"`
}

type framePeer struct {
	ID         string `json:"id"`
	SignalAddr string `json:"signal_addr,omitempty"`
	Name       string `json:"name,omitempty"`
}

const (
	frameCodeUpdate = "code-update"
	framePeerJoined = "peer-joined"
	framePeerLeft   = "peer-left"
)

// publish mirrors a local room event to other service instances. A publish
// failure degrades to single-instance behavior for that event.
func (h *Hub) publish(roomName string, event *Event) {
	if h.bp == nil {
		return
	}

	fe := frameEvent{From: event.From, Code: event.Code}
	switch event.Kind {
	case EventCodeUpdate:
		fe.Type = frameCodeUpdate
	case EventPeerJoined:
		fe.Type = framePeerJoined
	case EventPeerLeft:
		fe.Type = framePeerLeft
	default:
		return
	}
	if event.Peer != nil {
		fe.Peer = &framePeer{ID: event.Peer.ID, SignalAddr: event.Peer.SignalAddr, Name: event.Peer.Name}
	}

	payload, err := json.Marshal(fe)
	if err != nil {
		h.log.Warn().Err(err).Str("room", roomName).Msg("encode backplane frame")
		return
	}
	if err := h.bp.Publish(h.runCtx, backplane.Frame{
		Origin:  h.origin,
		Room:    roomName,
		Payload: payload,
	}); err != nil {
		h.log.Warn().Err(err).Str("room", roomName).Msg("backplane publish failed")
	}
}

// applyFrame relays an event from another instance into the local room.
// Frames tagged with our own origin are echoes of our own publishes and are
// dropped by tag comparison.
func (h *Hub) applyFrame(f backplane.Frame) {
	if f.Origin == h.origin {
		return
	}
	room := h.rooms[f.Room]
	if room == nil {
		return
	}

	var fe frameEvent
	if err := json.Unmarshal(f.Payload, &fe); err != nil {
		h.log.Warn().Err(err).Str("room", f.Room).Msg("decode backplane frame")
		return
	}

	event := &Event{Room: f.Room, From: fe.From, Code: fe.Code}
	switch fe.Type {
	case frameCodeUpdate:
		event.Kind = EventCodeUpdate
	case framePeerJoined:
		event.Kind = EventPeerJoined
	case framePeerLeft:
		event.Kind = EventPeerLeft
	default:
		return
	}
	if fe.Peer != nil {
		event.Peer = &PeerInfo{ID: fe.Peer.ID, SignalAddr: fe.Peer.SignalAddr, Name: fe.Peer.Name}
	}

	// The remote sender has no local client, so nobody here is excluded.
	room.Broadcast(event, nil)
}
