package testserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/shutterboard/internal/domain/activity"
	"github.com/rpggio/shutterboard/internal/domain/chat"
	"github.com/rpggio/shutterboard/internal/domain/dashboard"
	"github.com/rpggio/shutterboard/internal/export"
	"github.com/rpggio/shutterboard/internal/gsheets"
	"github.com/rpggio/shutterboard/internal/mcp"
	"github.com/rpggio/shutterboard/internal/metrics"
	"github.com/rpggio/shutterboard/internal/sqlite"
	"github.com/rpggio/shutterboard/internal/transport"
	"github.com/rpggio/shutterboard/internal/webhook"
	"github.com/stretchr/testify/require"
)

// DefaultCSV is the sheet served until a test replaces it.
const DefaultCSV = "Client Name,Email Address,Headshot Count,Price,Status\n" +
	"Jane Doe,jane@x.com,5,5000,Completed\n" +
	"Ravi,ravi@x.com,2,1500,working\n" +
	"Ola,ola@x.com,1,700,\n"

// Upstream fakes the published sheet and the chat webhook.
type Upstream struct {
	mu            sync.Mutex
	csv           string
	sheetStatus   int
	reply         map[string]any
	webhookStatus int
	received      []webhook.Payload
}

// SetSheet replaces the CSV body and status served for the sheet export.
func (u *Upstream) SetSheet(status int, csv string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sheetStatus = status
	u.csv = csv
}

// SetReply replaces the webhook response.
func (u *Upstream) SetReply(status int, reply map[string]any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.webhookStatus = status
	u.reply = reply
}

// Received returns the payloads posted to the webhook so far.
func (u *Upstream) Received() []webhook.Payload {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]webhook.Payload(nil), u.received...)
}

func (u *Upstream) serveSheet(w http.ResponseWriter, _ *http.Request) {
	u.mu.Lock()
	status, body := u.sheetStatus, u.csv
	u.mu.Unlock()
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (u *Upstream) serveWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhook.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	u.mu.Lock()
	u.received = append(u.received, payload)
	status, reply := u.webhookStatus, u.reply
	u.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(reply)
}

// TestServer runs the full HTTP stack on an in-memory database.
type TestServer struct {
	Server    *httptest.Server
	DB        *sqlite.DB
	Token     string
	Upstream  *Upstream
	Dashboard *dashboard.Service
	Metrics   *metrics.Recorder
}

// New starts a server whose /api and /mcp routes accept token.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	upstream := &Upstream{
		csv:           DefaultCSV,
		sheetStatus:   http.StatusOK,
		reply:         map[string]any{"response": "Sure thing."},
		webhookStatus: http.StatusOK,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/sheet", upstream.serveSheet)
	mux.HandleFunc("/webhook", upstream.serveWebhook)
	fake := httptest.NewServer(mux)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	recorder := metrics.New()
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	dashboardSvc := dashboard.NewService(
		gsheets.NewClient(fake.URL+"/sheet", 5*time.Second, nil),
		activitySvc, recorder, nil,
	)
	chatSvc := chat.NewService(
		webhook.NewClient(fake.URL+"/webhook", 5*time.Second, nil),
		sqlite.NewMessageRepository(db),
		dashboardSvc, activitySvc, recorder, nil,
	)
	keys := sqlite.NewAPIKeyRepository(db)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Dashboard: dashboardSvc,
			Chat:      chatSvc,
			Activity:  activitySvc,
		},
		Resolver:      keys,
		AuthEnabled:   true,
		TransportMode: "http",
		Version:       "test",
	})

	server := httptest.NewServer(transport.NewServer(transport.Config{
		Dashboard: dashboardSvc,
		Chat:      chatSvc,
		Activity:  activitySvc,
		Export:    export.WriteWorkbook,
		Resolver:  keys,
		Metrics:   recorder.Handler(),
		MCP:       mcp.NewHTTPHandler(mcpServer),
	}))

	ts := &TestServer{
		Server:    server,
		DB:        db,
		Token:     token,
		Upstream:  upstream,
		Dashboard: dashboardSvc,
		Metrics:   recorder,
	}

	_, err = keys.Add(t.Context(), "test-key", token)
	require.NoError(t, err)

	t.Cleanup(func() {
		server.Close()
		fake.Close()
		_ = db.Close()
	})

	return ts
}
