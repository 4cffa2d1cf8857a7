package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// RoomRef identifies a chat room a user has joined.
// Rooms have no record of their own; they exist as the set of ids
// referenced by messages and memberships.
type RoomRef struct {
	ID   string
	Name string
}

// WatchItem is an asteroid pinned to a user's watchlist.
type WatchItem struct {
	AsteroidID string
	Name       string
	AddedAt    time.Time
}

// User represents a registered user.
type User struct {
	ID           string // UUID
	Name         string
	Email        string
	PasswordHash string
	JoinedRooms  []RoomRef // insertion order, unique by room id
	Watchlist    []WatchItem
	CreatedAt    time.Time
}

// Message represents a persisted chat message.
type Message struct {
	ID          int64
	Room        string
	Author      string
	Body        string
	DisplayTime string // client-supplied wall-clock label, e.g. "10:03"
	CreatedAt   time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID, joined rooms included.
	// Returns ErrNotFound if no such user exists.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByEmail retrieves a user by email.
	// Returns ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// SaveJoinedRooms replaces the user's joined-room list.
	// Last write wins when two updates for the same user race.
	SaveJoinedRooms(ctx context.Context, userID string, rooms []RoomRef) error

	// AddWatchItem appends an asteroid to the user's watchlist.
	AddWatchItem(ctx context.Context, userID string, item WatchItem) error

	// RemoveWatchItem removes an asteroid from the user's watchlist.
	RemoveWatchItem(ctx context.Context, userID, asteroidID string) error

	// ListWatchlist returns the user's watchlist ordered by added time.
	ListWatchlist(ctx context.Context, userID string) ([]WatchItem, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// SaveMessage persists a message. The store assigns ID and CreatedAt.
	SaveMessage(ctx context.Context, msg *Message) error

	// ListMessagesByRoom returns all messages for a room ordered by
	// creation time ascending, id ascending on ties.
	ListMessagesByRoom(ctx context.Context, room string) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
