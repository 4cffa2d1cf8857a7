package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cosmicwatch/cosmicwatch-server/internal/auth"
	"github.com/cosmicwatch/cosmicwatch-server/internal/config"
	"github.com/cosmicwatch/cosmicwatch-server/internal/neo"
	"github.com/cosmicwatch/cosmicwatch-server/internal/relay"
	"github.com/cosmicwatch/cosmicwatch-server/internal/rooms"
	"github.com/cosmicwatch/cosmicwatch-server/internal/store"
)

// NewServer builds the HTTP server with all REST and WebSocket routes.
func NewServer(
	hub *relay.Hub,
	authService *auth.Service,
	membership *rooms.Service,
	st store.Store,
	feed *neo.Client,
	cfg *config.Config,
	logger *zerolog.Logger,
) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.ClientOrigin))

	router.GET("/health", healthHandler)

	authHandlers := NewAuthHandlers(authService, logger)
	chatHandlers := NewChatHandlers(membership, st, logger)
	asteroidHandlers := NewAsteroidHandlers(feed, logger)
	watchlistHandlers := NewWatchlistHandlers(st, logger)
	wsHandler := NewWSHandler(hub, logger)

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandlers.Register)
		api.POST("/auth/login", authHandlers.Login)

		// Chat endpoints take the user id in the request, like the rest of
		// the chat surface they are not token-protected.
		api.GET("/chat/history/:room", chatHandlers.History)
		api.POST("/chat/join", chatHandlers.Join)
		api.GET("/chat/rooms/:userId", chatHandlers.Rooms)
		api.POST("/chat/leave", chatHandlers.Leave)

		api.GET("/asteroids/feed", asteroidHandlers.Feed)

		watch := api.Group("/watchlist")
		watch.Use(AuthMiddleware(authService, logger))
		{
			watch.GET("", watchlistHandlers.List)
			watch.POST("", watchlistHandlers.Add)
			watch.DELETE("/:asteroidId", watchlistHandlers.Remove)
		}
	}

	router.GET("/ws", gin.WrapH(wsHandler))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
