package core

// Room groups participants editing the same document. Membership keeps
// insertion order so fan-out and the at-join replay are deterministic.
type Room struct {
	Name    string
	clients map[*Client]struct{}
	order   []*Client
}

// NewRoom constructs a room with no participants.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		clients: make(map[*Client]struct{}),
	}
}

// AddClient inserts a client into the room. Returns true if newly added.
func (r *Room) AddClient(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	r.order = append(r.order, c)
	return true
}

// RemoveClient deletes a client from the room. Returns true if removed.
func (r *Room) RemoveClient(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	for i, other := range r.order {
		if other == c {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Others returns every participant except the given one, in insertion order.
func (r *Room) Others(except *Client) []*Client {
	others := make([]*Client, 0, len(r.order))
	for _, c := range r.order {
		if c != except {
			others = append(others, c)
		}
	}
	return others
}

// Broadcast sends an event to all participants except the origin. Delivery is
// best-effort: a slow consumer's event is dropped, never buffered out of order.
func (r *Room) Broadcast(event *Event, except *Client) {
	for _, client := range r.order {
		if client == except {
			continue
		}
		select {
		case client.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}

// Empty returns true if no participants are in the room.
func (r *Room) Empty() bool {
	return len(r.clients) == 0
}
