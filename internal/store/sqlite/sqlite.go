package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/cosmicwatch/cosmicwatch-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS joined_rooms (
	user_id   TEXT NOT NULL,
	room_id   TEXT NOT NULL,
	room_name TEXT NOT NULL,
	position  INTEGER NOT NULL,
	PRIMARY KEY (user_id, room_id),
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS watchlist (
	user_id     TEXT NOT NULL,
	asteroid_id TEXT NOT NULL,
	name        TEXT NOT NULL,
	added_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, asteroid_id),
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS messages (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	room         TEXT NOT NULL,
	author       TEXT NOT NULL,
	body         TEXT NOT NULL,
	display_time TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_room_time ON messages(room, created_at, id);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens a SQLite database at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup opens a SQLite database and runs a setup function.
// Useful for tests to apply an alternative schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user with hashed password.
func (s *SQLiteStore) CreateUser(ctx context.Context, name, email, passwordHash string) (*store.User, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, id, name, email, passwordHash, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID, joined rooms and watchlist included.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*store.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*store.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE ` + where

	var user store.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	rooms, err := s.listJoinedRooms(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.JoinedRooms = rooms

	items, err := s.ListWatchlist(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Watchlist = items

	return &user, nil
}

func (s *SQLiteStore) listJoinedRooms(ctx context.Context, userID string) ([]store.RoomRef, error) {
	query := `
		SELECT room_id, room_name
		FROM joined_rooms
		WHERE user_id = ?
		ORDER BY position ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query joined rooms: %w", err)
	}
	defer rows.Close()

	var rooms []store.RoomRef
	for rows.Next() {
		var r store.RoomRef
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan joined room: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate joined rooms: %w", err)
	}

	return rooms, nil
}

// SaveJoinedRooms replaces the user's joined-room list in one transaction.
// Positions are reassigned from the slice order, so insertion order survives
// round trips. Last write wins when two saves for the same user race.
func (s *SQLiteStore) SaveJoinedRooms(ctx context.Context, userID string, rooms []store.RoomRef) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM joined_rooms WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear joined rooms: %w", err)
	}

	insert := `INSERT INTO joined_rooms (user_id, room_id, room_name, position) VALUES (?, ?, ?, ?)`
	for i, r := range rooms {
		if _, err := tx.ExecContext(ctx, insert, userID, r.ID, r.Name, i); err != nil {
			return fmt.Errorf("insert joined room: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit joined rooms: %w", err)
	}
	return nil
}

// AddWatchItem appends an asteroid to the user's watchlist.
func (s *SQLiteStore) AddWatchItem(ctx context.Context, userID string, item store.WatchItem) error {
	addedAt := item.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}
	query := `
		INSERT OR IGNORE INTO watchlist (user_id, asteroid_id, name, added_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, userID, item.AsteroidID, item.Name, addedAt); err != nil {
		return fmt.Errorf("insert watch item: %w", err)
	}
	return nil
}

// RemoveWatchItem removes an asteroid from the user's watchlist.
func (s *SQLiteStore) RemoveWatchItem(ctx context.Context, userID, asteroidID string) error {
	query := `DELETE FROM watchlist WHERE user_id = ? AND asteroid_id = ?`
	if _, err := s.db.ExecContext(ctx, query, userID, asteroidID); err != nil {
		return fmt.Errorf("delete watch item: %w", err)
	}
	return nil
}

// ListWatchlist returns the user's watchlist ordered by added time.
func (s *SQLiteStore) ListWatchlist(ctx context.Context, userID string) ([]store.WatchItem, error) {
	query := `
		SELECT asteroid_id, name, added_at
		FROM watchlist
		WHERE user_id = ?
		ORDER BY added_at ASC, asteroid_id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	var items []store.WatchItem
	for rows.Next() {
		var it store.WatchItem
		if err := rows.Scan(&it.AsteroidID, &it.Name, &it.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watch item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist: %w", err)
	}

	return items, nil
}

// ==== MessageStore implementation ====

// SaveMessage persists a message and fills in its ID and CreatedAt.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO messages (room, author, body, display_time, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, msg.Room, msg.Author, msg.Body, msg.DisplayTime, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	msg.ID = id
	return nil
}

// ListMessagesByRoom returns all messages for a room, oldest first.
// Insert order (id) breaks created_at ties so the ordering is stable.
func (s *SQLiteStore) ListMessagesByRoom(ctx context.Context, room string) ([]*store.Message, error) {
	query := `
		SELECT id, room, author, body, display_time, created_at
		FROM messages
		WHERE room = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, room)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0)
	for rows.Next() {
		var m store.Message
		if err := rows.Scan(&m.ID, &m.Room, &m.Author, &m.Body, &m.DisplayTime, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}
