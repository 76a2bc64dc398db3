package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/shutterboard/internal/domain/activity"
	"github.com/rpggio/shutterboard/internal/domain/chat"
	"github.com/rpggio/shutterboard/internal/domain/dashboard"
	"github.com/rpggio/shutterboard/internal/domain/sheetdata"
)

// DashboardService defines dashboard operations needed by MCP.
type DashboardService interface {
	Refresh(ctx context.Context) (*dashboard.Snapshot, error)
	Current() dashboard.Snapshot
	Clients(filter string) ([]sheetdata.ClientRecord, error)
}

// ChatService defines chat operations needed by MCP.
type ChatService interface {
	Send(ctx context.Context, text string) (*chat.Exchange, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Dashboard DashboardService
	Chat      ChatService
	Activity  ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      KeyResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "shutterboard",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode: always disable auth (local use only).
	// The identity middleware is outermost so traffic logs carry the actor.
	identity := noAuthMiddleware(defaultActor)
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		identity = authMiddleware(cfg.Resolver)
	}
	server.AddReceivingMiddleware(identity, trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
