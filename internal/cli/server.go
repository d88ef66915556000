package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/host"
	"github.com/toyz/dendrite/internal/host/adapters"
	"github.com/toyz/dendrite/internal/utils"
)

// ShutdownTimeout bounds graceful shutdown of the schema host
const ShutdownTimeout = 10 * time.Second

// NewWebServer returns the adapter for a framework name
func NewWebServer(engine string) (host.WebServer, error) {
	switch engine {
	case "", "echo":
		return adapters.NewDefaultEchoAdapter(), nil
	case "gin":
		return adapters.NewDefaultGinAdapter(), nil
	case "fiber":
		return adapters.NewDefaultFiberAdapter(), nil
	default:
		return nil, errors.Newf(errors.ConfigurationErrorCode, "unknown engine %q", engine).
			WithSuggestion("use one of echo, gin or fiber")
	}
}

// Serve runs the schema host until ctx is cancelled
func Serve(ctx context.Context, cfg *Config, diagnostics *utils.DiagnosticSystem) error {
	ws, err := NewWebServer(cfg.Engine)
	if err != nil {
		return err
	}
	host.NewService(diagnostics).Routes(ws)

	errCh := make(chan error, 1)
	go func() {
		diagnostics.Info("Starting %s schema host on %s", ws.Name(), cfg.Addr)
		errCh <- ws.Start(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("schema host stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	diagnostics.Info("Shutting down schema host...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := ws.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("schema host forced to shutdown: %w", err)
	}
	diagnostics.Success("Schema host shutdown complete")
	return nil
}
