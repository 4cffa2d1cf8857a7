package http

import (
	"context"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cosmicwatch/cosmicwatch-server/internal/auth"
	"github.com/cosmicwatch/cosmicwatch-server/internal/config"
	"github.com/cosmicwatch/cosmicwatch-server/internal/neo"
	"github.com/cosmicwatch/cosmicwatch-server/internal/relay"
	"github.com/cosmicwatch/cosmicwatch-server/internal/rooms"
	"github.com/cosmicwatch/cosmicwatch-server/internal/store"
	"github.com/cosmicwatch/cosmicwatch-server/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with the schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st store.Store, jwtSecret string) *auth.Service {
	t.Helper()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(jwtSecret),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return auth.NewService(st, jwtConfig)
}

// createTestServer wires a full server around an in-memory store. The hub
// run loop is stopped via t.Cleanup.
func createTestServer(t *testing.T, st store.Store) *stdhttp.Server {
	t.Helper()

	disabledLogger := zerolog.New(nil)

	hub := relay.NewHub(relay.NewRegistry(), st, &disabledLogger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		ClientOrigin:      "http://localhost:5173",
		JWTSecret:         "test-secret",
	}

	authService := createTestAuthService(t, st, cfg.JWTSecret)
	membership := rooms.NewService(st)
	feed := neo.NewClient("http://127.0.0.1:0", "TEST_KEY")

	return NewServer(hub, authService, membership, st, feed, &cfg, &disabledLogger)
}
