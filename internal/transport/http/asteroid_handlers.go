package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cosmicwatch/cosmicwatch-server/internal/neo"
)

// AsteroidHandlers proxies the NASA NEO feed.
type AsteroidHandlers struct {
	feed *neo.Client
	log  *zerolog.Logger
}

// NewAsteroidHandlers creates a new asteroid handlers instance.
func NewAsteroidHandlers(feed *neo.Client, logger *zerolog.Logger) *AsteroidHandlers {
	return &AsteroidHandlers{
		feed: feed,
		log:  logger,
	}
}

// Feed returns the analyzed asteroid feed for a date range (default today).
// GET /api/asteroids/feed?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (h *AsteroidHandlers) Feed(c *gin.Context) {
	start := c.Query("start_date")
	end := c.Query("end_date")

	objects, err := h.feed.FetchFeed(c.Request.Context(), start, end)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to fetch asteroid feed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch asteroid data"})
		return
	}

	c.JSON(http.StatusOK, objects)
}
