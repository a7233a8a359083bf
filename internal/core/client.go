package core

import "sync"

// Client is one connected participant as seen by the core layer. Name and
// SignalAddr are set by the hub goroutine when the join command arrives and
// must not be touched by the transport after registration.
type Client struct {
	ID         string
	Name       string
	SignalAddr string

	Commands chan *Command
	Events   chan *Event

	done     chan struct{}
	stopOnce sync.Once
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
		done:     make(chan struct{}),
	}
}

// stop terminates the command pump for this client. Safe to call twice.
func (c *Client) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// peerInfo snapshots the client's signaling identity.
func (c *Client) peerInfo() *PeerInfo {
	return &PeerInfo{ID: c.ID, SignalAddr: c.SignalAddr, Name: c.Name}
}
