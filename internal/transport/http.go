package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rpggio/shutterboard/internal/domain/activity"
	"github.com/rpggio/shutterboard/internal/domain/chat"
	"github.com/rpggio/shutterboard/internal/domain/dashboard"
	"github.com/rpggio/shutterboard/internal/domain/sheetdata"
	"golang.org/x/time/rate"
)

// DashboardService defines dashboard operations needed by the API.
type DashboardService interface {
	Refresh(ctx context.Context) (*dashboard.Snapshot, error)
	Current() dashboard.Snapshot
	Clients(filter string) ([]sheetdata.ClientRecord, error)
}

// ChatService defines chat operations needed by the API.
type ChatService interface {
	Send(ctx context.Context, text string) (*chat.Exchange, error)
	Transcript(ctx context.Context, limit int) ([]chat.Message, error)
}

// ActivityService defines activity operations needed by the API.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// WorkbookWriter renders a snapshot as XLSX.
type WorkbookWriter func(w io.Writer, snap dashboard.Snapshot) error

// Config wires the HTTP server.
type Config struct {
	Dashboard DashboardService
	Chat      ChatService
	Activity  ActivityService
	Export    WorkbookWriter
	// Resolver enables bearer auth on /api when non-nil.
	Resolver KeyResolver
	// ChatLimiter throttles POST /api/chat when non-nil.
	ChatLimiter *rate.Limiter
	// Metrics and MCP are mounted at /metrics and /mcp when non-nil.
	Metrics http.Handler
	MCP     http.Handler
	Logger  *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	dashboard DashboardService
	chat      ChatService
	activity  ActivityService
	export    WorkbookWriter
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	srv := &Server{
		dashboard: cfg.Dashboard,
		chat:      cfg.Chat,
		activity:  cfg.Activity,
		export:    cfg.Export,
		validate:  newValidator(),
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.Resolver != nil {
			r.Use(AuthMiddleware(cfg.Resolver))
		}
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/dashboard", srv.handleDashboard)
		r.Post("/dashboard/refresh", srv.handleRefresh)
		r.Get("/clients", srv.handleClients)
		r.Get("/clients/export.xlsx", srv.handleExport)
		r.Get("/revenue", srv.handleRevenue)
		r.Get("/stats", srv.handleStats)
		r.With(rateLimit(cfg.ChatLimiter, logger)).Post("/chat", srv.handleChat)
		r.Get("/chat/messages", srv.handleChatMessages)
		r.Get("/activity", srv.handleActivity)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = errorFor(err)
	}
	if apiErr.StatusCode >= http.StatusInternalServerError && apiErr.StatusCode != http.StatusBadGateway {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	_ = render.Render(w, r, apiErr)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) validateBody(v any) *APIError {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	apiErr := newAPIError(http.StatusBadRequest, "VALIDATION_FAILED", "request validation failed")
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		apiErr.Details = fields
	}
	return apiErr
}

// queryInt parses a non-negative integer query parameter. Missing means 0.
func queryInt(r *http.Request, key string) (int, *APIError) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, newAPIError(http.StatusBadRequest, "INVALID_PARAMETER", key+" must be a non-negative integer")
	}
	return n, nil
}
