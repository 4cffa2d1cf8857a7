package relay

// Registry tracks which clients are subscribed to which rooms. It is owned
// by the Hub and only ever touched from the Hub's run loop, so it needs no
// locking.
type Registry struct {
	rooms  map[string]map[*Client]struct{}
	joined map[*Client]map[string]struct{}
}

// NewRegistry constructs an empty subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]map[*Client]struct{}),
		joined: make(map[*Client]map[string]struct{}),
	}
}

// Subscribe adds the client to the room's broadcast group.
// Subscribing twice is a no-op.
func (r *Registry) Subscribe(room string, c *Client) {
	clients, ok := r.rooms[room]
	if !ok {
		clients = make(map[*Client]struct{})
		r.rooms[room] = clients
	}
	clients[c] = struct{}{}

	joined, ok := r.joined[c]
	if !ok {
		joined = make(map[string]struct{})
		r.joined[c] = joined
	}
	joined[room] = struct{}{}
}

// RemoveClient drops every subscription held by the client.
func (r *Registry) RemoveClient(c *Client) {
	for room := range r.joined[c] {
		delete(r.rooms[room], c)
		if len(r.rooms[room]) == 0 {
			delete(r.rooms, room)
		}
	}
	delete(r.joined, c)
}

// Broadcast delivers msg to every subscriber of the room except sender.
// Delivery is best effort: a client whose event buffer is full misses the
// message rather than stalling the room.
func (r *Registry) Broadcast(room string, msg Message, sender *Client) {
	for client := range r.rooms[room] {
		if client == sender {
			continue
		}
		select {
		case client.Events <- msg:
		default:
			// Drop if slow consumer.
		}
	}
}
