package relay

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cosmicwatch/cosmicwatch-server/internal/store"
)

type clientCommand struct {
	client *Client
	cmd    Command
}

// Hub fans chat messages out to room subscribers. All subscription state
// lives in the registry and is mutated only by the single Run goroutine,
// which also fixes the order subscribers observe messages in: per room,
// delivery order is the order the hub dispatched the sends. No ordering is
// promised across rooms.
type Hub struct {
	registry *Registry
	messages store.MessageStore
	log      *zerolog.Logger

	register   chan *Client
	unregister chan *Client
	dispatch   chan clientCommand
	done       chan struct{}
}

// NewHub creates a hub around the given registry. messages may be nil, in
// which case inbound messages relay without being persisted.
func NewHub(registry *Registry, messages store.MessageStore, logger *zerolog.Logger) *Hub {
	return &Hub{
		registry:   registry,
		messages:   messages,
		log:        logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		dispatch:   make(chan clientCommand),
		done:       make(chan struct{}),
	}
}

// RegisterClient attaches a connection to the hub and starts pumping its
// commands into the dispatch loop. The connection detaches by closing
// c.Commands (or cancelling ctx); any commands still buffered at that point
// are dispatched before the client's subscriptions are torn down.
func (h *Hub) RegisterClient(ctx context.Context, c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		return
	case <-ctx.Done():
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- c:
			case <-h.done:
			}
		}()

		for cmd := range c.Commands {
			select {
			case h.dispatch <- clientCommand{client: c, cmd: cmd}:
			case <-h.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Run services registration and dispatch until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.log.Debug().Str("client_id", c.ID).Msg("client connected")
		case c := <-h.unregister:
			h.registry.RemoveClient(c)
			h.log.Debug().Str("client_id", c.ID).Msg("client disconnected")
		case cc := <-h.dispatch:
			h.handle(cc.client, cc.cmd)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handle(c *Client, cmd Command) {
	switch cmd.Kind {
	case CommandJoinRoom:
		// Any connection may join any room id; there is no room existence
		// or authorization check to make.
		h.registry.Subscribe(cmd.Room, c)
		h.log.Debug().Str("client_id", c.ID).Str("room", cmd.Room).Msg("joined room")
	case CommandSendMessage:
		// Persistence and broadcast are independent effects of the same
		// inbound event. The write runs on its own goroutine and is never
		// awaited: if it fails the message still relays live, it just
		// won't show up in later history reads.
		if h.messages != nil {
			go h.persist(cmd.Message)
		}
		h.registry.Broadcast(cmd.Room, cmd.Message, c)
	}
}

func (h *Hub) persist(msg Message) {
	record := store.Message{
		Room:        msg.Room,
		Author:      msg.Author,
		Body:        msg.Body,
		DisplayTime: msg.DisplayTime,
	}
	if err := h.messages.SaveMessage(context.Background(), &record); err != nil {
		h.log.Error().Err(err).Str("room", msg.Room).Msg("failed to save message")
	}
}
