package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/shutterboard/internal/config"
	"github.com/rpggio/shutterboard/internal/export"
	"github.com/rpggio/shutterboard/internal/mcp"
	"github.com/rpggio/shutterboard/internal/transport"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API and MCP endpoint (or MCP over stdio when transport.mode is stdio)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve MCP over stdio for a local assistant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.Transport.Mode = "stdio"
			return serve(cmd.Context(), cfg)
		},
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return serve(cmd.Context(), cfg)
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	console := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		console = os.Stderr
	}
	a, err := newApp(cfg, console)
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.Sheet.RefreshOnStart {
		go func() {
			if _, err := a.dashboard.Refresh(ctx); err != nil {
				a.logger.Warn("initial refresh failed", "error", err)
			}
		}()
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Dashboard: a.dashboard,
			Chat:      a.chat,
			Activity:  a.activity,
		},
		Resolver:      a.keys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        a.logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdio(ctx, a.logger, mcpServer)
	}
	return runHTTP(ctx, a, mcpServer)
}

func runStdio(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTP(ctx context.Context, a *app, mcpServer *sdkmcp.Server) error {
	var resolver transport.KeyResolver
	if a.cfg.Auth.Enabled {
		resolver = a.keys
	}

	handler := transport.NewServer(transport.Config{
		Dashboard:   a.dashboard,
		Chat:        a.chat,
		Activity:    a.activity,
		Export:      export.WriteWorkbook,
		Resolver:    resolver,
		ChatLimiter: chatLimiter(a.cfg.Chat),
		Metrics:     a.metrics.Handler(),
		MCP:         mcp.NewHTTPHandler(mcpServer),
		Logger:      a.logger,
	})

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", "addr", addr, "auth", a.cfg.Auth.Enabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(a, httpServer)
	})
	return g.Wait()
}

// chatLimiter returns nil when chat rate limiting is disabled.
func chatLimiter(cfg config.ChatConfig) *rate.Limiter {
	if cfg.RateLimit <= 0 {
		return nil
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
}

func shutdown(a *app, server *http.Server) error {
	ctx := context.Background()
	if timeout := a.cfg.Server.ShutdownTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	a.logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
