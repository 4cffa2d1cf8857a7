package rooms

import (
	"context"
	"errors"
	"testing"

	"github.com/cosmicwatch/cosmicwatch-server/internal/store"
	"github.com/cosmicwatch/cosmicwatch-server/internal/store/sqlite"
)

func newTestService(t *testing.T) (*Service, *store.User) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	user, err := st.CreateUser(context.Background(), "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	return NewService(st), user
}

func TestListDefaultsToGeneral(t *testing.T) {
	svc, user := newTestService(t)

	list, err := svc.List(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}

	if len(list) != 1 || list[0].ID != DefaultRoomID || list[0].Name != DefaultRoomName {
		t.Fatalf("expected default room fallback, got %+v", list)
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	room := store.RoomRef{ID: "mars-1", Name: "mars-1 Research"}

	first, err := svc.Join(ctx, user.ID, room)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	second, err := svc.Join(ctx, user.ID, room)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected exactly one entry after double join, got %d then %d", len(first), len(second))
	}
	if second[0] != room {
		t.Fatalf("unexpected entry: %+v", second[0])
	}
}

func TestJoinPreservesInsertionOrder(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	refs := []store.RoomRef{
		{ID: "mars-1", Name: "mars-1 Research"},
		{ID: "eros-433", Name: "eros-433 Watchers"},
		{ID: "bennu-101955", Name: "bennu Updates"},
	}
	for _, r := range refs {
		if _, err := svc.Join(ctx, user.ID, r); err != nil {
			t.Fatalf("join %s: %v", r.ID, err)
		}
	}

	list, err := svc.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(list) != len(refs) {
		t.Fatalf("expected %d rooms, got %d", len(refs), len(list))
	}
	for i, r := range refs {
		if list[i] != r {
			t.Fatalf("position %d: expected %+v, got %+v", i, r, list[i])
		}
	}
}

func TestLeaveAbsentRoomIsNoop(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Join(ctx, user.ID, store.RoomRef{ID: "mars-1", Name: "mars-1 Research"}); err != nil {
		t.Fatalf("join: %v", err)
	}

	list, err := svc.Leave(ctx, user.ID, "never-joined")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if len(list) != 1 || list[0].ID != "mars-1" {
		t.Fatalf("expected unchanged list, got %+v", list)
	}
}

func TestJoinThenLeaveRestoresDefault(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	room := store.RoomRef{ID: "mars-1", Name: "☄️ mars-1 Research"}
	if _, err := svc.Join(ctx, user.ID, room); err != nil {
		t.Fatalf("join: %v", err)
	}

	list, err := svc.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(list) != 1 || list[0].ID != "mars-1" {
		t.Fatalf("expected mars-1 in list, got %+v", list)
	}

	after, err := svc.Leave(ctx, user.ID, "mars-1")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if len(after) != 0 {
		t.Fatalf("expected empty list after leave, got %+v", after)
	}

	list, err = svc.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(list) != 1 || list[0].ID != DefaultRoomID {
		t.Fatalf("expected default fallback after leave, got %+v", list)
	}
}

func TestUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Join(ctx, "missing", store.RoomRef{ID: "mars-1"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("join: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Leave(ctx, "missing", "mars-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("leave: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.List(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("list: expected ErrNotFound, got %v", err)
	}
}
