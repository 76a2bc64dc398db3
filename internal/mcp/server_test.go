package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/shutterboard/internal/domain/activity"
	"github.com/rpggio/shutterboard/internal/domain/chat"
	"github.com/rpggio/shutterboard/internal/domain/dashboard"
	"github.com/rpggio/shutterboard/internal/domain/sheetdata"
	"github.com/stretchr/testify/require"
)

type dashboardStub struct {
	refreshFn func(context.Context) (*dashboard.Snapshot, error)
	currentFn func() dashboard.Snapshot
	clientsFn func(string) ([]sheetdata.ClientRecord, error)
}

func (d dashboardStub) Refresh(ctx context.Context) (*dashboard.Snapshot, error) {
	return d.refreshFn(ctx)
}
func (d dashboardStub) Current() dashboard.Snapshot {
	return d.currentFn()
}
func (d dashboardStub) Clients(filter string) ([]sheetdata.ClientRecord, error) {
	return d.clientsFn(filter)
}

type chatStub struct {
	sendFn func(context.Context, string) (*chat.Exchange, error)
}

func (c chatStub) Send(ctx context.Context, text string) (*chat.Exchange, error) {
	return c.sendFn(ctx, text)
}

type activityStub struct {
	listFn func(context.Context, activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

func (a activityStub) GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	return a.listFn(ctx, opts)
}

type resolverStub struct {
	resolveFn func(context.Context, string) (string, error)
}

func (r resolverStub) Resolve(ctx context.Context, token string) (string, error) {
	return r.resolveFn(ctx, token)
}

var fetchedAt = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

func loadedSnapshot() dashboard.Snapshot {
	clients := []sheetdata.ClientRecord{
		{ID: "1", Name: "Jane Doe", Email: "jane@x.com", Headshots: 5, Price: 5000, Status: sheetdata.StatusCompleted},
		{ID: "2", Name: "Ravi", Email: "ravi@x.com", Headshots: 2, Price: 1500, Status: sheetdata.StatusInProgress},
		{ID: "3", Name: "Ola", Email: "ola@x.com", Headshots: 1, Price: 700, Status: sheetdata.StatusPending},
	}
	return dashboard.Snapshot{
		Clients:   clients,
		Stats:     sheetdata.ComputeStats(clients),
		Revenue:   []sheetdata.RevenuePoint{{Month: "Jan", Revenue: 1200, Clients: 1}},
		FetchedAt: fetchedAt,
	}
}

func defaultServices() Services {
	return Services{
		Dashboard: dashboardStub{
			refreshFn: func(context.Context) (*dashboard.Snapshot, error) {
				snap := loadedSnapshot()
				return &snap, nil
			},
			currentFn: loadedSnapshot,
			clientsFn: func(filter string) ([]sheetdata.ClientRecord, error) {
				if filter == "" {
					return loadedSnapshot().Clients, nil
				}
				if filter == "completed" {
					return loadedSnapshot().Clients[:1], nil
				}
				return nil, fmt.Errorf("%w: %q", dashboard.ErrInvalidStatus, filter)
			},
		},
		Chat: chatStub{sendFn: func(_ context.Context, text string) (*chat.Exchange, error) {
			return &chat.Exchange{
				UserMessage: chat.Message{ID: "u1", Text: text, FromUser: true, CreatedAt: fetchedAt},
				Reply:       chat.Message{ID: "r1", Text: "done", CreatedAt: fetchedAt},
			}, nil
		}},
		Activity: activityStub{listFn: func(context.Context, activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
			return nil, nil
		}},
	}
}

func connect(t *testing.T, cfg Config) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(cfg)
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func decodeStructured(t *testing.T, res *sdkmcp.CallToolResult, out any) {
	t.Helper()
	require.False(t, res.IsError, "tool returned error: %v", toolText(res))
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func toolText(res *sdkmcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func TestServer_ListTools(t *testing.T) {
	cs := connect(t, Config{Services: defaultServices()})

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"get_dashboard",
		"list_clients",
		"get_revenue_series",
		"refresh_dashboard",
		"send_chat_message",
		"get_recent_activity",
	}, names)
}

func TestServer_GetDashboard(t *testing.T) {
	cs := connect(t, Config{Services: defaultServices()})

	var out dashboardOutput
	decodeStructured(t, callTool(t, cs, "get_dashboard", nil), &out)
	require.True(t, out.Loaded)
	require.Len(t, out.Clients, 3)
	require.Equal(t, 7200, out.Stats.TotalRevenue)
	require.Equal(t, 2, out.Stats.PendingEmails)
	require.NotNil(t, out.FetchedAt)
	require.True(t, fetchedAt.Equal(*out.FetchedAt))
}

func TestServer_GetDashboardBeforeFirstLoad(t *testing.T) {
	svc := defaultServices()
	svc.Dashboard = dashboardStub{currentFn: func() dashboard.Snapshot { return dashboard.Snapshot{} }}
	cs := connect(t, Config{Services: svc})

	var out dashboardOutput
	decodeStructured(t, callTool(t, cs, "get_dashboard", nil), &out)
	require.False(t, out.Loaded)
	require.Empty(t, out.Clients)
	require.Nil(t, out.FetchedAt)
}

func TestServer_ListClients(t *testing.T) {
	cs := connect(t, Config{Services: defaultServices()})

	var out listClientsOutput
	decodeStructured(t, callTool(t, cs, "list_clients", map[string]any{"limit": 2}), &out)
	require.Equal(t, 2, out.Count)
	require.Equal(t, 3, out.Total)
	require.Equal(t, "Jane Doe", out.Clients[0].Name)

	decodeStructured(t, callTool(t, cs, "list_clients", map[string]any{"status": "completed"}), &out)
	require.Equal(t, 1, out.Count)
	require.Equal(t, sheetdata.StatusCompleted, out.Clients[0].Status)
}

func TestServer_ListClientsInvalidStatus(t *testing.T) {
	cs := connect(t, Config{Services: defaultServices()})

	res := callTool(t, cs, "list_clients", map[string]any{"status": "archived"})
	require.True(t, res.IsError)
	require.Contains(t, toolText(res), "INVALID_STATUS")
}

func TestServer_GetRevenueSeries(t *testing.T) {
	cs := connect(t, Config{Services: defaultServices()})

	var out revenueOutput
	decodeStructured(t, callTool(t, cs, "get_revenue_series", nil), &out)
	require.True(t, out.Synthetic)
	require.Equal(t, []sheetdata.RevenuePoint{{Month: "Jan", Revenue: 1200, Clients: 1}}, out.Revenue)
}

func TestServer_RefreshDashboard(t *testing.T) {
	svc := defaultServices()
	var calls int
	svc.Dashboard = dashboardStub{
		currentFn: loadedSnapshot,
		refreshFn: func(context.Context) (*dashboard.Snapshot, error) {
			calls++
			if calls > 1 {
				return nil, fmt.Errorf("%w: status 503", dashboard.ErrRefreshFailed)
			}
			snap := loadedSnapshot()
			return &snap, nil
		},
	}
	cs := connect(t, Config{Services: svc})

	var out dashboardOutput
	decodeStructured(t, callTool(t, cs, "refresh_dashboard", nil), &out)
	require.True(t, out.Loaded)
	require.Len(t, out.Clients, 3)

	res := callTool(t, cs, "refresh_dashboard", nil)
	require.True(t, res.IsError)
	require.Contains(t, toolText(res), "REFRESH_FAILED")
	require.Contains(t, toolText(res), "previous dashboard data is still available")
}

func TestServer_SendChatMessage(t *testing.T) {
	svc := defaultServices()
	var gotActor string
	svc.Chat = chatStub{sendFn: func(ctx context.Context, text string) (*chat.Exchange, error) {
		gotActor = activity.ActorFromContext(ctx)
		if text == "" {
			return nil, chat.ErrEmptyMessage
		}
		return &chat.Exchange{
			UserMessage:   chat.Message{ID: "u1", Text: text, FromUser: true, CreatedAt: fetchedAt},
			Reply:         chat.Message{ID: "r1", Text: "Added Ola", CreatedAt: fetchedAt},
			DataRefreshed: true,
		}, nil
	}}
	cs := connect(t, Config{Services: svc, TransportMode: "stdio", AuthEnabled: true})

	var out chat.Exchange
	decodeStructured(t, callTool(t, cs, "send_chat_message", map[string]any{"message": "add Ola"}), &out)
	require.Equal(t, "add Ola", out.UserMessage.Text)
	require.Equal(t, "Added Ola", out.Reply.Text)
	require.True(t, out.DataRefreshed)
	require.Equal(t, defaultActor, gotActor)

	res := callTool(t, cs, "send_chat_message", map[string]any{"message": ""})
	require.True(t, res.IsError)
	require.Contains(t, toolText(res), "EMPTY_MESSAGE")
}

func TestServer_GetRecentActivity(t *testing.T) {
	svc := defaultServices()
	var gotOpts activity.ListActivityOptions
	svc.Activity = activityStub{listFn: func(_ context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
		gotOpts = opts
		return []activity.ActivityEntry{{
			ID:           1,
			ActivityType: activity.TypeRefreshSucceeded,
			Actor:        activity.SystemActor,
			Summary:      "Loaded 3 clients",
			CreatedAt:    fetchedAt,
		}}, nil
	}}
	cs := connect(t, Config{Services: svc})

	var out recentActivityOutput
	decodeStructured(t, callTool(t, cs, "get_recent_activity", map[string]any{
		"type":  "refresh_succeeded",
		"limit": 1000,
	}), &out)
	require.Len(t, out.Activity, 1)
	require.Equal(t, maxToolLimit, gotOpts.Limit)
	require.NotNil(t, gotOpts.ActivityType)
	require.Equal(t, activity.TypeRefreshSucceeded, *gotOpts.ActivityType)

	res := callTool(t, cs, "get_recent_activity", map[string]any{"type": "bogus"})
	require.True(t, res.IsError)
	require.Contains(t, toolText(res), "INVALID_ACTIVITY_TYPE")
}

func TestServer_GetRecentActivityEmpty(t *testing.T) {
	cs := connect(t, Config{Services: defaultServices()})

	var out recentActivityOutput
	decodeStructured(t, callTool(t, cs, "get_recent_activity", nil), &out)
	require.NotNil(t, out.Activity)
	require.Empty(t, out.Activity)
}

func TestServer_ReadDocs(t *testing.T) {
	cs := connect(t, Config{Services: defaultServices()})
	ctx := context.Background()

	for _, uri := range []string{"shutterboard://docs/index", "shutterboard://docs/parsing"} {
		res, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: uri})
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		require.Equal(t, uri, res.Contents[0].URI)
		require.NotEmpty(t, res.Contents[0].Text)
	}
}

func TestServer_AuthRequiresHeaders(t *testing.T) {
	cfg := Config{
		Services:      defaultServices(),
		TransportMode: "http",
		AuthEnabled:   true,
		Resolver: resolverStub{resolveFn: func(context.Context, string) (string, error) {
			return "", errors.New("should not be called")
		}},
	}
	cs := connect(t, cfg)

	_, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "get_dashboard"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized")
}

type headerTransport struct {
	token string
	base  http.RoundTripper
}

func (h headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+h.token)
	return h.base.RoundTrip(req)
}

func TestHTTPHandler_BearerAuth(t *testing.T) {
	svc := defaultServices()
	var gotActor string
	svc.Chat = chatStub{sendFn: func(ctx context.Context, text string) (*chat.Exchange, error) {
		gotActor = activity.ActorFromContext(ctx)
		return &chat.Exchange{
			UserMessage: chat.Message{ID: "u1", Text: text, FromUser: true, CreatedAt: fetchedAt},
			Reply:       chat.Message{ID: "r1", Text: "ok", CreatedAt: fetchedAt},
		}, nil
	}}
	server := NewServer(Config{
		Services:      svc,
		TransportMode: "http",
		AuthEnabled:   true,
		Resolver: resolverStub{resolveFn: func(_ context.Context, token string) (string, error) {
			if token == "good-token" {
				return "studio-laptop", nil
			}
			return "", errors.New("not found")
		}},
	})
	// Registered before the sessions so they close first; Close waits on open streams.
	ts := httptest.NewServer(NewHTTPHandler(server))
	t.Cleanup(ts.Close)

	dial := func(token string) *sdkmcp.ClientSession {
		client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0"}, nil)
		cs, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
			Endpoint:   ts.URL,
			HTTPClient: &http.Client{Transport: headerTransport{token: token, base: http.DefaultTransport}},
			MaxRetries: -1,
		}, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = cs.Close() })
		return cs
	}

	cs := dial("good-token")
	var out chat.Exchange
	decodeStructured(t, callTool(t, cs, "send_chat_message", map[string]any{"message": "hi"}), &out)
	require.Equal(t, "studio-laptop", gotActor)

	bad := dial("bad-token")
	_, err := bad.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "get_dashboard"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized")
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("boom")))

	apiErr := MapError(fmt.Errorf("%w: timeout", dashboard.ErrRefreshFailed))
	require.NotNil(t, apiErr)
	require.Equal(t, "REFRESH_FAILED", apiErr.Code)
	require.ErrorIs(t, apiErr, dashboard.ErrRefreshFailed)

	require.Equal(t, "EMPTY_MESSAGE", MapError(chat.ErrEmptyMessage).Code)
	require.Equal(t, "MESSAGE_TOO_LONG", MapError(fmt.Errorf("%w: 4001 characters", chat.ErrMessageTooLong)).Code)
}
