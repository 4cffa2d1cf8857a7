package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cosmicwatch/cosmicwatch-server/internal/store"
)

// WatchlistHandlers manages a user's pinned asteroids. All routes sit behind
// AuthMiddleware; the user comes from the token, not the request body.
type WatchlistHandlers struct {
	users store.UserStore
	log   *zerolog.Logger
}

// NewWatchlistHandlers creates a new watchlist handlers instance.
func NewWatchlistHandlers(users store.UserStore, logger *zerolog.Logger) *WatchlistHandlers {
	return &WatchlistHandlers{
		users: users,
		log:   logger,
	}
}

// WatchItemRequest represents the add-to-watchlist request body.
type WatchItemRequest struct {
	AsteroidID string `json:"asteroidId" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

// WatchItemJSON represents a watchlist entry in API responses.
type WatchItemJSON struct {
	AsteroidID string `json:"asteroidId"`
	Name       string `json:"name"`
	AddedAt    string `json:"addedAt"`
}

func watchlistResponse(items []store.WatchItem) []WatchItemJSON {
	out := make([]WatchItemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, WatchItemJSON{
			AsteroidID: it.AsteroidID,
			Name:       it.Name,
			AddedAt:    it.AddedAt.Format(time.RFC3339),
		})
	}
	return out
}

// List returns the authenticated user's watchlist.
// GET /api/watchlist
func (h *WatchlistHandlers) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	items, err := h.users.ListWatchlist(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to list watchlist")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, watchlistResponse(items))
}

// Add pins an asteroid to the authenticated user's watchlist.
// POST /api/watchlist
func (h *WatchlistHandlers) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req WatchItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid watchlist request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	item := store.WatchItem{AsteroidID: req.AsteroidID, Name: req.Name}
	if err := h.users.AddWatchItem(c.Request.Context(), userID, item); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to add watch item")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	items, err := h.users.ListWatchlist(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to list watchlist")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, watchlistResponse(items))
}

// Remove unpins an asteroid from the authenticated user's watchlist.
// DELETE /api/watchlist/:asteroidId
func (h *WatchlistHandlers) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	asteroidID := c.Param("asteroidId")
	if err := h.users.RemoveWatchItem(c.Request.Context(), userID, asteroidID); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to remove watch item")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	items, err := h.users.ListWatchlist(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to list watchlist")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, watchlistResponse(items))
}
