package relay

// Client is one socket connection as seen by the relay.
type Client struct {
	ID       string
	Commands chan Command
	Events   chan Message
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan Command, 8),
		Events:   make(chan Message, 16),
	}
}
