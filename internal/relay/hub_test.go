package relay

import (
	"context"
	"testing"
	"time"
)

// The dispatch tests below call handle directly: it is only ever invoked
// from the single Run goroutine, so driving it from the test goroutine
// exercises the same single-threaded semantics.

func TestBroadcastExcludesSender(t *testing.T) {
	hub := NewHub(NewRegistry(), nil, testLogger())

	alice := NewClient("a")
	bob := NewClient("b")

	hub.handle(alice, Command{Kind: CommandJoinRoom, Room: "General"})
	hub.handle(bob, Command{Kind: CommandJoinRoom, Room: "General"})

	msg := Message{Room: "General", Author: "alice", Body: "hi", DisplayTime: "10:00"}
	hub.handle(alice, Command{Kind: CommandSendMessage, Room: "General", Message: msg})

	got := mustMessage(t, bob.Events, "hi")
	if got != msg {
		t.Fatalf("unexpected payload: %+v", got)
	}
	assertNever(t, alice.Events, "hi", 100*time.Millisecond)
}

func TestBroadcastOrderPerRoom(t *testing.T) {
	hub := NewHub(NewRegistry(), nil, testLogger())

	alice := NewClient("a")
	bob := NewClient("b")

	hub.handle(bob, Command{Kind: CommandJoinRoom, Room: "mars-1"})

	for _, body := range []string{"m1", "m2", "m3"} {
		hub.handle(alice, Command{
			Kind:    CommandSendMessage,
			Room:    "mars-1",
			Message: Message{Room: "mars-1", Author: "alice", Body: body},
		})
	}

	for _, want := range []string{"m1", "m2", "m3"} {
		got := <-bob.Events
		if got.Body != want {
			t.Fatalf("expected %q, got %q", want, got.Body)
		}
	}
}

func TestJoinIsIdempotentNoDuplicateDelivery(t *testing.T) {
	hub := NewHub(NewRegistry(), nil, testLogger())

	alice := NewClient("a")
	bob := NewClient("b")

	hub.handle(bob, Command{Kind: CommandJoinRoom, Room: "General"})
	hub.handle(bob, Command{Kind: CommandJoinRoom, Room: "General"})

	hub.handle(alice, Command{
		Kind:    CommandSendMessage,
		Room:    "General",
		Message: Message{Room: "General", Body: "once"},
	})

	mustMessage(t, bob.Events, "once")
	assertNever(t, bob.Events, "once", 100*time.Millisecond)
}

func TestSendWithoutSubscribersIsNoop(t *testing.T) {
	hub := NewHub(NewRegistry(), nil, testLogger())

	alice := NewClient("a")

	// Senders need no membership and unknown rooms are not an error.
	hub.handle(alice, Command{
		Kind:    CommandSendMessage,
		Room:    "ghost",
		Message: Message{Room: "ghost", Body: "anyone?"},
	})

	assertNever(t, alice.Events, "anyone?", 100*time.Millisecond)
}

func TestSendPersistsMessage(t *testing.T) {
	messages := &memMessageStore{}
	hub := NewHub(NewRegistry(), messages, testLogger())

	alice := NewClient("a")
	bob := NewClient("b")
	hub.handle(bob, Command{Kind: CommandJoinRoom, Room: "General"})

	hub.handle(alice, Command{
		Kind:    CommandSendMessage,
		Room:    "General",
		Message: Message{Room: "General", Author: "alice", Body: "hi", DisplayTime: "10:00"},
	})

	mustMessage(t, bob.Events, "hi")

	// The write runs on its own goroutine; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	for messages.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if messages.count() != 1 {
		t.Fatalf("expected 1 persisted message, got %d", messages.count())
	}

	saved, err := messages.ListMessagesByRoom(context.Background(), "General")
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if saved[0].Author != "alice" || saved[0].Body != "hi" || saved[0].DisplayTime != "10:00" {
		t.Fatalf("unexpected persisted message: %+v", saved[0])
	}
}

func TestPersistFailureStillBroadcasts(t *testing.T) {
	messages := &memMessageStore{failNext: true}
	hub := NewHub(NewRegistry(), messages, testLogger())

	alice := NewClient("a")
	bob := NewClient("b")
	hub.handle(bob, Command{Kind: CommandJoinRoom, Room: "General"})

	hub.handle(alice, Command{
		Kind:    CommandSendMessage,
		Room:    "General",
		Message: Message{Room: "General", Body: "lost"},
	})

	// Broadcast is not blocked or reverted by the failed write.
	mustMessage(t, bob.Events, "lost")

	hub.handle(alice, Command{
		Kind:    CommandSendMessage,
		Room:    "General",
		Message: Message{Room: "General", Body: "kept"},
	})
	mustMessage(t, bob.Events, "kept")

	deadline := time.Now().Add(2 * time.Second)
	for messages.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	saved, _ := messages.ListMessagesByRoom(context.Background(), "General")
	if len(saved) != 1 || saved[0].Body != "kept" {
		t.Fatalf("expected only the second message persisted, got %+v", saved)
	}
}

func TestRunRegistersAndTearsDown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := NewHub(NewRegistry(), nil, testLogger())
	go hub.Run(ctx)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(ctx, alice)
	hub.RegisterClient(ctx, bob)

	alice.Commands <- Command{Kind: CommandJoinRoom, Room: "General"}
	bob.Commands <- Command{Kind: CommandJoinRoom, Room: "General"}

	// Joins carry no acknowledgment, so probe until the fan-out is live in
	// both directions.
	probeUntilDelivered(t, alice, bob, "General", "probe-ab")
	probeUntilDelivered(t, bob, alice, "General", "probe-ba")

	// Alice disconnects: closing Commands detaches her after any buffered
	// commands drain. No "user left" event exists to wait for, so probe
	// until bob's sends stop reaching her.
	close(alice.Commands)

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		bob.Commands <- Command{
			Kind:    CommandSendMessage,
			Room:    "General",
			Message: Message{Room: "General", Body: "after-leave"},
		}
		time.Sleep(20 * time.Millisecond)
	}
	// Drain whatever reached alice before teardown; nothing may arrive once
	// her subscriptions are gone.
	for {
		select {
		case <-alice.Events:
			continue
		default:
		}
		break
	}
	assertNever(t, alice.Events, "after-leave", 150*time.Millisecond)
}

// probeUntilDelivered sends probes from one client until the other observes
// one, proving both the sender's pump and the receiver's subscription.
func probeUntilDelivered(t *testing.T, from, to *Client, room, marker string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		from.Commands <- Command{
			Kind:    CommandSendMessage,
			Room:    room,
			Message: Message{Room: room, Body: marker},
		}
		select {
		case msg := <-to.Events:
			if msg.Body == marker {
				return
			}
		case <-time.After(20 * time.Millisecond):
		}
	}
	t.Fatalf("probe %q never delivered", marker)
}
