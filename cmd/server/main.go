package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/divvyhq/divvy/internal/api"
	"github.com/divvyhq/divvy/internal/auth"
	"github.com/divvyhq/divvy/internal/config"
	"github.com/divvyhq/divvy/internal/storage/sqlite"
	"github.com/divvyhq/divvy/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	server := api.New(store, authenticator, jwtManager)

	// h2c allows HTTP/2 without TLS when running behind a terminating proxy.
	handler := h2c.NewHandler(server.Handler(), &http2.Server{})

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
