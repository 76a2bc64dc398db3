package transport

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/rpggio/shutterboard/internal/domain/dashboard"
	"github.com/rpggio/shutterboard/internal/domain/sheetdata"
	"github.com/rpggio/shutterboard/internal/export"
)

type dashboardResponse struct {
	Loaded    bool                     `json:"loaded"`
	Clients   []sheetdata.ClientRecord `json:"clients"`
	Stats     sheetdata.DashboardStats `json:"stats"`
	Revenue   []sheetdata.RevenuePoint `json:"revenue"`
	FetchedAt *time.Time               `json:"fetched_at,omitempty"`
}

func newDashboardResponse(snap dashboard.Snapshot) dashboardResponse {
	resp := dashboardResponse{
		Loaded:  snap.Loaded(),
		Clients: snap.Clients,
		Stats:   snap.Stats,
		Revenue: snap.Revenue,
	}
	if resp.Clients == nil {
		resp.Clients = []sheetdata.ClientRecord{}
	}
	if resp.Revenue == nil {
		resp.Revenue = []sheetdata.RevenuePoint{}
	}
	if snap.Loaded() {
		at := snap.FetchedAt
		resp.FetchedAt = &at
	}
	return resp
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, newDashboardResponse(s.dashboard.Current()))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.dashboard.Refresh(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, newDashboardResponse(*snap))
}

type clientsResponse struct {
	Clients []sheetdata.ClientRecord `json:"clients"`
	Count   int                      `json:"count"`
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.dashboard.Clients(r.URL.Query().Get("status"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if clients == nil {
		clients = []sheetdata.ClientRecord{}
	}
	render.JSON(w, r, clientsResponse{Clients: clients, Count: len(clients)})
}

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	revenue := s.dashboard.Current().Revenue
	if revenue == nil {
		revenue = []sheetdata.RevenuePoint{}
	}
	render.JSON(w, r, map[string]any{"revenue": revenue})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.dashboard.Current().Stats)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.export == nil {
		s.renderError(w, r, newAPIError(http.StatusNotImplemented, "NOT_IMPLEMENTED", "export is not configured"))
		return
	}

	var buf bytes.Buffer
	if err := s.export(&buf, s.dashboard.Current()); err != nil {
		s.renderError(w, r, fmt.Errorf("exporting workbook: %w", err))
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="shutterboard-clients.xlsx"`)
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
