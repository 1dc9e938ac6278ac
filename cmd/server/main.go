package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mquinn/chorewheel/internal/auth"
	"github.com/mquinn/chorewheel/internal/config"
	"github.com/mquinn/chorewheel/internal/server"
	"github.com/mquinn/chorewheel/internal/service"
	"github.com/mquinn/chorewheel/internal/storage/sqlite"
	"github.com/mquinn/chorewheel/pkg/logging"
)

// grantTTL bounds how long an authorize step stays usable before the
// commit. Long enough to tap a second button, short enough that a
// stolen grant is useless.
const grantTTL = 2 * time.Minute

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	svc, err := service.New(context.Background(), store)
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}

	grants := auth.NewGrantManager(cfg.GrantSecret, grantTTL)
	srv := server.New(svc, grants, cfg.Runtime)

	// h2c lets browsers on the LAN use HTTP/2 without TLS.
	handler := h2c.NewHandler(srv.Router(), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
