package relay

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the client to a room's broadcasts.
	CommandJoinRoom CommandKind = iota
	// CommandSendMessage relays a chat message to the room's other subscribers.
	CommandSendMessage
)

// Command represents an action requested by a client. There is no
// leave-room command; subscriptions only end when the connection does.
type Command struct {
	Kind    CommandKind
	Room    string
	Message Message
}

// Message is a chat message as it travels through the relay. The room and
// author are whatever the sender claims; the relay does not verify either.
type Message struct {
	Room        string
	Author      string
	Body        string
	DisplayTime string
}
