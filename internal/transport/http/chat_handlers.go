package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cosmicwatch/cosmicwatch-server/internal/rooms"
	"github.com/cosmicwatch/cosmicwatch-server/internal/store"
)

// ChatHandlers provides HTTP handlers for room membership and history.
type ChatHandlers struct {
	membership *rooms.Service
	messages   store.MessageStore
	log        *zerolog.Logger
}

// NewChatHandlers creates a new chat handlers instance.
func NewChatHandlers(membership *rooms.Service, messages store.MessageStore, logger *zerolog.Logger) *ChatHandlers {
	return &ChatHandlers{
		membership: membership,
		messages:   messages,
		log:        logger,
	}
}

// RoomRefJSON represents one joined room in API responses.
type RoomRefJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MessageJSON represents one chat message in API responses.
type MessageJSON struct {
	ID        int64  `json:"id"`
	Room      string `json:"room"`
	Author    string `json:"author"`
	Message   string `json:"message"`
	Time      string `json:"time"`
	CreatedAt string `json:"created_at"`
}

// JoinRoomRequest represents the join request body.
type JoinRoomRequest struct {
	UserID string `json:"userId" binding:"required"`
	Room   struct {
		ID   string `json:"id" binding:"required"`
		Name string `json:"name"`
	} `json:"room" binding:"required"`
}

// LeaveRoomRequest represents the leave request body.
type LeaveRoomRequest struct {
	UserID string `json:"userId" binding:"required"`
	RoomID string `json:"roomId" binding:"required"`
}

func roomListResponse(list []store.RoomRef) []RoomRefJSON {
	out := make([]RoomRefJSON, 0, len(list))
	for _, r := range list {
		out = append(out, RoomRefJSON{ID: r.ID, Name: r.Name})
	}
	return out
}

// History returns all persisted messages for a room, oldest first.
// GET /api/chat/history/:room
func (h *ChatHandlers) History(c *gin.Context) {
	room := c.Param("room")

	messages, err := h.messages.ListMessagesByRoom(c.Request.Context(), room)
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("failed to fetch history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]MessageJSON, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageJSON{
			ID:        m.ID,
			Room:      m.Room,
			Author:    m.Author,
			Message:   m.Body,
			Time:      m.DisplayTime,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

// Join adds a room to the user's joined set and returns the updated list.
// POST /api/chat/join
func (h *ChatHandlers) Join(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid join request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing userId or room data"})
		return
	}

	list, err := h.membership.Join(c.Request.Context(), req.UserID, store.RoomRef{
		ID:   req.Room.ID,
		Name: req.Room.Name,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("failed to join room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, roomListResponse(list))
}

// Rooms lists the user's joined rooms, defaulting to the general room.
// GET /api/chat/rooms/:userId
func (h *ChatHandlers) Rooms(c *gin.Context) {
	userID := c.Param("userId")

	list, err := h.membership.List(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to list rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, roomListResponse(list))
}

// Leave removes a room from the user's joined set and returns the list.
// POST /api/chat/leave
func (h *ChatHandlers) Leave(c *gin.Context) {
	var req LeaveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid leave request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing userId or roomId"})
		return
	}

	list, err := h.membership.Leave(c.Request.Context(), req.UserID, req.RoomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("failed to leave room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, roomListResponse(list))
}
