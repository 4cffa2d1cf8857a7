package rooms

import (
	"context"
	"fmt"

	"github.com/cosmicwatch/cosmicwatch-server/internal/store"
)

// The default room every user effectively belongs to. It has no stored
// membership row; List falls back to it when a user's stored set is empty,
// so an empty set and "only General" are indistinguishable to callers.
const (
	DefaultRoomID   = "General"
	DefaultRoomName = "General Announcements"
)

// DefaultRoom returns the well-known fallback room.
func DefaultRoom() store.RoomRef {
	return store.RoomRef{ID: DefaultRoomID, Name: DefaultRoomName}
}

// Service manages per-user room membership.
type Service struct {
	users store.UserStore
}

// NewService creates a membership service backed by the given user store.
func NewService(users store.UserStore) *Service {
	return &Service{users: users}
}

// Join adds room to the user's joined-room set and returns the full list.
// Joining an already-joined room is a no-op that still returns the current
// list. Insertion order is preserved. Returns store.ErrNotFound if the user
// does not exist.
func (s *Service) Join(ctx context.Context, userID string, room store.RoomRef) ([]store.RoomRef, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	for _, r := range user.JoinedRooms {
		if r.ID == room.ID {
			return user.JoinedRooms, nil
		}
	}

	updated := append(user.JoinedRooms, room)
	if err := s.users.SaveJoinedRooms(ctx, userID, updated); err != nil {
		return nil, fmt.Errorf("save joined rooms: %w", err)
	}
	return updated, nil
}

// Leave removes any entry matching roomID from the user's joined-room set
// and returns the resulting list. Leaving a room the user is not in is a
// no-op. The service does not protect the default room; that restriction
// lives in the caller. Returns store.ErrNotFound if the user does not exist.
func (s *Service) Leave(ctx context.Context, userID, roomID string) ([]store.RoomRef, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	updated := make([]store.RoomRef, 0, len(user.JoinedRooms))
	removed := false
	for _, r := range user.JoinedRooms {
		if r.ID == roomID {
			removed = true
			continue
		}
		updated = append(updated, r)
	}
	if !removed {
		return user.JoinedRooms, nil
	}

	if err := s.users.SaveJoinedRooms(ctx, userID, updated); err != nil {
		return nil, fmt.Errorf("save joined rooms: %w", err)
	}
	return updated, nil
}

// List returns the user's joined rooms, or just the default room when the
// stored set is empty. Returns store.ErrNotFound if the user does not exist.
func (s *Service) List(ctx context.Context, userID string) ([]store.RoomRef, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if len(user.JoinedRooms) == 0 {
		return []store.RoomRef{DefaultRoom()}, nil
	}
	return user.JoinedRooms, nil
}
