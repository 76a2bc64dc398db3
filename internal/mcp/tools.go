package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/shutterboard/internal/domain/activity"
	"github.com/rpggio/shutterboard/internal/domain/chat"
	"github.com/rpggio/shutterboard/internal/domain/dashboard"
	"github.com/rpggio/shutterboard/internal/domain/sheetdata"
)

// maxToolLimit caps list sizes returned to agents.
const maxToolLimit = 500

type emptyInput struct{}

type dashboardOutput struct {
	Loaded    bool                     `json:"loaded" jsonschema:"false until the sheet has been fetched successfully once"`
	Clients   []sheetdata.ClientRecord `json:"clients"`
	Stats     sheetdata.DashboardStats `json:"stats"`
	Revenue   []sheetdata.RevenuePoint `json:"revenue" jsonschema:"placeholder six-month series derived from total revenue"`
	FetchedAt *time.Time               `json:"fetched_at,omitempty"`
}

type listClientsInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter by status: completed, in_progress, pending or cancelled"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of clients to return"`
}

type listClientsOutput struct {
	Clients []sheetdata.ClientRecord `json:"clients"`
	Count   int                      `json:"count"`
	Total   int                      `json:"total" jsonschema:"number of matching clients before the limit"`
}

type revenueOutput struct {
	Revenue   []sheetdata.RevenuePoint `json:"revenue"`
	Synthetic bool                     `json:"synthetic" jsonschema:"always true: monthly values are randomised shares of total revenue"`
}

type sendChatInput struct {
	Message string `json:"message" jsonschema:"text to relay to the studio assistant"`
}

type recentActivityInput struct {
	Type  string `json:"type,omitempty" jsonschema:"refresh_succeeded, refresh_failed, chat_exchanged or chat_failed"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of entries, newest first"`
}

type recentActivityOutput struct {
	Activity []activity.ActivityEntry `json:"activity"`
}

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_dashboard",
		Description: "Get the last successfully loaded dashboard: clients, stats and revenue series",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, dashboardOutput, error) {
		return nil, newDashboardOutput(svc.Dashboard.Current()), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_clients",
		Description: "List client records in sheet order, optionally filtered by status",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in listClientsInput) (*sdkmcp.CallToolResult, listClientsOutput, error) {
		clients, err := svc.Dashboard.Clients(in.Status)
		if err != nil {
			return nil, listClientsOutput{}, toolError(err)
		}
		total := len(clients)
		if limit := clampLimit(in.Limit); limit > 0 && len(clients) > limit {
			clients = clients[:limit]
		}
		if clients == nil {
			clients = []sheetdata.ClientRecord{}
		}
		return nil, listClientsOutput{Clients: clients, Count: len(clients), Total: total}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_revenue_series",
		Description: "Get the six-month revenue chart series (placeholder data derived from total revenue)",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, revenueOutput, error) {
		revenue := svc.Dashboard.Current().Revenue
		if revenue == nil {
			revenue = []sheetdata.RevenuePoint{}
		}
		return nil, revenueOutput{Revenue: revenue, Synthetic: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "refresh_dashboard",
		Description: "Fetch the sheet again and rebuild the dashboard; on failure the previous data is kept",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, dashboardOutput, error) {
		snap, err := svc.Dashboard.Refresh(ctx)
		if err != nil {
			return nil, dashboardOutput{}, toolError(err)
		}
		return nil, newDashboardOutput(*snap), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "send_chat_message",
		Description: "Relay a message to the studio assistant; refreshes the dashboard when the assistant reports a sheet change",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in sendChatInput) (*sdkmcp.CallToolResult, chat.Exchange, error) {
		exchange, err := svc.Chat.Send(ctx, in.Message)
		if err != nil {
			return nil, chat.Exchange{}, toolError(err)
		}
		return nil, *exchange, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent refresh and chat activity, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in recentActivityInput) (*sdkmcp.CallToolResult, recentActivityOutput, error) {
		opts := activity.ListActivityOptions{Limit: clampLimit(in.Limit)}
		if in.Type != "" {
			typ := activity.ActivityType(in.Type)
			if !typ.Valid() {
				return nil, recentActivityOutput{}, &APIError{
					Code:         "INVALID_ACTIVITY_TYPE",
					Message:      "unknown activity type " + in.Type,
					RecoveryHint: "Use refresh_succeeded, refresh_failed, chat_exchanged or chat_failed",
				}
			}
			opts.ActivityType = &typ
		}

		entries, err := svc.Activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, recentActivityOutput{}, toolError(err)
		}
		if entries == nil {
			entries = []activity.ActivityEntry{}
		}
		return nil, recentActivityOutput{Activity: entries}, nil
	})
}

func newDashboardOutput(snap dashboard.Snapshot) dashboardOutput {
	out := dashboardOutput{
		Loaded:  snap.Loaded(),
		Clients: snap.Clients,
		Stats:   snap.Stats,
		Revenue: snap.Revenue,
	}
	if out.Clients == nil {
		out.Clients = []sheetdata.ClientRecord{}
	}
	if out.Revenue == nil {
		out.Revenue = []sheetdata.RevenuePoint{}
	}
	if snap.Loaded() {
		at := snap.FetchedAt
		out.FetchedAt = &at
	}
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	if limit > maxToolLimit {
		return maxToolLimit
	}
	return limit
}
