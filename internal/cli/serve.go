package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	httpadapter "github.com/aretw0/careerpath/pkg/adapters/http"
	"github.com/aretw0/careerpath/pkg/adapters/mcp"
)

// NewHTTPHandler builds the API handler for app.
func NewHTTPHandler(app *App) http.Handler {
	return httpadapter.NewHandler(app.Planner,
		httpadapter.WithSessions(app.Sessions),
		httpadapter.WithStreams(app.Streams),
		httpadapter.WithTransitions(app.Engine.Transitions()),
		httpadapter.WithMetrics(app.Registry),
		httpadapter.WithAllowedOrigins(app.Config.Server.AllowedOrigins...),
		httpadapter.WithMaxInputSize(app.Config.Server.MaxInputSize),
		httpadapter.WithHealth(httpadapter.Health{
			OracleConfigured: app.Config.Oracle.APIKey != "",
			SearchEnabled:    app.Engine.SearchEnabled(),
		}),
		httpadapter.WithLogger(app.Logger),
	)
}

// Serve runs the HTTP API on addr until ctx ends, then drains in-flight
// requests for at most the configured shutdown timeout.
func Serve(ctx context.Context, app *App, addr string) error {
	cfg := app.Config.Server
	if addr == "" {
		addr = cfg.Addr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewHTTPHandler(app),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting CareerPath server", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		app.Logger.Info("Shutting down server", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("Graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		app.Logger.Info("Server stopped gracefully")
		return nil
	}
}

// NewMCPServer builds the MCP adapter for app.
func NewMCPServer(app *App) *mcp.Server {
	return mcp.NewServer(app.Planner,
		mcp.WithSessions(app.Sessions),
		mcp.WithTransitions(app.Engine.Transitions()),
		mcp.WithLogger(app.Logger),
	)
}
