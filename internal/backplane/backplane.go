// Package backplane extends the relay across service instances through an
// external pub/sub bus. The hub works identically without one; the backplane
// only widens the audience of room events.
package backplane

import "context"

// Frame is one room event crossing the bus. Origin is the publishing
// instance's identifier so subscribers can drop their own echoes; Payload is
// an opaque event encoding owned by the hub.
type Frame struct {
	Origin  string `json:"origin"`
	Room    string `json:"room"`
	Payload []byte `json:"payload"`
}

// Backplane is a publish/subscribe primitive keyed by room identifier.
type Backplane interface {
	// Publish sends a frame to every subscribed instance, including this one.
	Publish(ctx context.Context, f Frame) error

	// Subscribe returns a channel of frames published by any instance. The
	// channel is closed when the context is cancelled or the bus goes away.
	Subscribe(ctx context.Context) (<-chan Frame, error)

	// Close releases the bus connection.
	Close() error
}
