package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/avdeev/codepair-server/internal/backplane"
	"github.com/avdeev/codepair-server/internal/utils"
)

// inbound pairs a command with the client that issued it, so fan-out can
// exclude the origin by identity rather than by a mutable flag.
type inbound struct {
	client *Client
	cmd    *Command
}

// Hub owns all room state. A single goroutine started by Run processes every
// registration, command, and backplane frame, which serializes registry
// mutation and guarantees per-sender delivery order without locks.
type Hub struct {
	log    *zerolog.Logger
	bp     backplane.Backplane
	origin string

	register   chan *Client
	unregister chan *Client
	commands   chan inbound
	stopped    chan struct{}

	runCtx context.Context

	rooms  map[string]*Room
	member map[*Client]string // current room name, "" if roomless
}

// NewHub creates the hub. Both the logger and the backplane may be nil; a nil
// backplane means single-instance operation.
func NewHub(logger *zerolog.Logger, bp backplane.Backplane) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		log:        logger,
		bp:         bp,
		origin:     utils.NewID(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan inbound),
		stopped:    make(chan struct{}),
		rooms:      make(map[string]*Room),
		member:     make(map[*Client]string),
	}
}

// RegisterClient makes the client known to the hub and starts consuming its
// command channel. Must be paired with UnregisterClient.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
	}
}

// UnregisterClient removes the client from its room, notifies peers, and
// closes the client's event channel. Safe to call after the hub stopped, so
// connection teardown never deadlocks against shutdown.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
		c.stop()
	}
}

// Run processes hub traffic until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	h.runCtx = ctx
	defer close(h.stopped)

	var frames <-chan backplane.Frame
	if h.bp != nil {
		var err error
		frames, err = h.bp.Subscribe(ctx)
		if err != nil {
			h.log.Warn().Err(err).Msg("backplane subscribe failed, running single-instance")
			frames = nil
		}
	}

	for {
		select {
		case c := <-h.register:
			h.member[c] = ""
			go h.pump(ctx, c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case in := <-h.commands:
			h.dispatch(in.client, in.cmd)
		case f, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			h.applyFrame(f)
		case <-ctx.Done():
			return
		}
	}
}

// pump forwards one client's commands into the hub loop.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- inbound{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	if _, registered := h.member[c]; !registered {
		return
	}
	switch cmd.Kind {
	case CommandJoinRoom:
		h.handleJoin(c, cmd)
	case CommandLeaveRoom:
		h.handleLeave(c, cmd.Room)
	case CommandCodeChange:
		h.handleCodeChange(c, cmd)
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if cmd.Room == "" {
		h.sendError(c, coreError(ErrCodeBadRequest, "room is required"))
		return
	}

	current := h.member[c]
	if current == cmd.Room {
		// Re-join with the same connection is a no-op.
		return
	}
	if current != "" {
		// A participant occupies at most one room at a time.
		h.removeFromRoom(c, current)
	}

	if cmd.Name != "" {
		c.Name = cmd.Name
	}
	if cmd.SignalAddr != "" {
		c.SignalAddr = cmd.SignalAddr
	}

	room := h.rooms[cmd.Room]
	if room == nil {
		room = NewRoom(cmd.Room)
		h.rooms[cmd.Room] = room
	}
	room.AddClient(c)
	h.member[c] = cmd.Room

	// Replay current membership to the newcomer so it can dial everyone who
	// was here first. The newcomer itself is announced exactly once to each
	// existing member below.
	for _, other := range room.Others(c) {
		h.send(c, &Event{Kind: EventPeerPresent, Room: room.Name, Peer: other.peerInfo()})
	}

	joined := &Event{Kind: EventPeerJoined, Room: room.Name, Peer: c.peerInfo()}
	room.Broadcast(joined, c)
	h.publish(room.Name, joined)

	h.log.Debug().Str("client_id", c.ID).Str("room", room.Name).Msg("client joined room")
}

func (h *Hub) handleLeave(c *Client, roomName string) {
	// Leaving a room the client is not in (including an already expired
	// room) is a no-op, never an error: a disconnect racing the room's
	// natural expiry must not fail.
	if roomName == "" || h.member[c] != roomName {
		return
	}
	h.removeFromRoom(c, roomName)
}

func (h *Hub) handleCodeChange(c *Client, cmd *Command) {
	if h.member[c] != cmd.Room {
		h.sendError(c, coreError(ErrCodeNotInRoom, "join the room before sending code"))
		return
	}
	room := h.rooms[cmd.Room]
	if room == nil {
		return
	}
	update := &Event{Kind: EventCodeUpdate, Room: cmd.Room, From: c.ID, Code: cmd.Code}
	room.Broadcast(update, c)
	h.publish(cmd.Room, update)
}

func (h *Hub) handleDisconnect(c *Client) {
	if current, ok := h.member[c]; ok && current != "" {
		h.removeFromRoom(c, current)
	}
	delete(h.member, c)
	c.stop()
	close(c.Events)
}

// removeFromRoom drops the client from the named room, tells the remaining
// members, and discards the room once empty.
func (h *Hub) removeFromRoom(c *Client, roomName string) {
	h.member[c] = ""
	room := h.rooms[roomName]
	if room == nil || !room.RemoveClient(c) {
		return
	}
	left := &Event{Kind: EventPeerLeft, Room: roomName, Peer: &PeerInfo{ID: c.ID}}
	room.Broadcast(left, nil)
	h.publish(roomName, left)
	if room.Empty() {
		delete(h.rooms, roomName)
	}
	h.log.Debug().Str("client_id", c.ID).Str("room", roomName).Msg("client left room")
}

func (h *Hub) send(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}

func (h *Hub) sendError(c *Client, cerr *CoreError) {
	h.send(c, &Event{Kind: EventError, Error: cerr})
}
