package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cosmicwatch/cosmicwatch-server/internal/store"
)

var errStoreDown = errors.New("store down")

func testLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

// mustMessage drains the client's event channel until a message with the
// given body arrives, skipping anything else seen along the way.
func mustMessage(t *testing.T, ch <-chan Message, body string) Message {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-ch:
			if msg.Body == body {
				return msg
			}
		case <-deadline:
			t.Fatalf("expected message %q not received", body)
			return Message{}
		}
	}
}

// assertNever fails if a message with the given body shows up within the
// wait window.
func assertNever(t *testing.T, ch <-chan Message, body string, wait time.Duration) {
	t.Helper()

	deadline := time.After(wait)
	for {
		select {
		case msg := <-ch:
			if msg.Body == body {
				t.Fatalf("unexpected message %q received", body)
			}
		case <-deadline:
			return
		}
	}
}

// memMessageStore is an in-memory store.MessageStore for relay tests.
type memMessageStore struct {
	mu       sync.Mutex
	saved    []store.Message
	failNext bool
}

func (m *memMessageStore) SaveMessage(_ context.Context, msg *store.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errStoreDown
	}
	msg.ID = int64(len(m.saved) + 1)
	m.saved = append(m.saved, *msg)
	return nil
}

func (m *memMessageStore) ListMessagesByRoom(_ context.Context, room string) ([]*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Message
	for i := range m.saved {
		if m.saved[i].Room == room {
			msg := m.saved[i]
			out = append(out, &msg)
		}
	}
	return out, nil
}

func (m *memMessageStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}
