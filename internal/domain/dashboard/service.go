package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/shutterboard/internal/domain/activity"
	"github.com/rpggio/shutterboard/internal/domain/sheetdata"
)

// Service runs the fetch-and-parse pipeline and holds the last good snapshot.
//
// Refreshes are not deduplicated: overlapping calls each fetch independently
// and whichever finishes last replaces the snapshot.
type Service struct {
	source   SheetSource
	activity ActivityRecorder
	metrics  Metrics
	rng      sheetdata.RandomSource
	now      func() time.Time
	logger   *slog.Logger

	mu      sync.RWMutex
	current Snapshot
}

// Option customises a Service.
type Option func(*Service)

// WithRandomSource sets the generator behind the revenue series.
func WithRandomSource(rng sheetdata.RandomSource) Option {
	return func(s *Service) { s.rng = rng }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new dashboard service. activityRec and metrics may be nil.
func NewService(source SheetSource, activityRec ActivityRecorder, metrics Metrics, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if activityRec == nil {
		activityRec = noopRecorder{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	s := &Service{
		source:   source,
		activity: activityRec,
		metrics:  metrics,
		now:      time.Now,
		logger:   logger,
		current:  emptySnapshot(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh fetches the sheet, parses it and replaces the current snapshot.
// On failure the current snapshot is left untouched and the error wraps
// ErrRefreshFailed.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	actor := activity.ActorFromContext(ctx)

	start := s.now()
	raw, err := s.source.Fetch(ctx)
	fetchDuration := s.now().Sub(start)

	var records []sheetdata.ClientRecord
	if err == nil {
		records, err = sheetdata.ParseRecords(raw)
	}
	if err != nil {
		s.metrics.ObserveRefresh(false, fetchDuration)
		s.logger.Error("dashboard refresh failed", "actor", actor, "error", err)
		s.activity.Record(ctx, activity.TypeRefreshFailed, actor,
			"Failed to fetch data from the sheet", map[string]string{"error": err.Error()})
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	snap := Snapshot{
		Clients:   records,
		Stats:     sheetdata.ComputeStats(records),
		Revenue:   sheetdata.SynthesizeRevenueSeries(records, s.rng),
		FetchedAt: s.now(),
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.metrics.ObserveRefresh(true, fetchDuration)
	s.metrics.SetDashboard(snap.Stats.TotalClients, snap.Stats.TotalRevenue)
	s.logger.Info("dashboard refreshed",
		"actor", actor,
		"clients", snap.Stats.TotalClients,
		"revenue", snap.Stats.TotalRevenue,
		"fetch_ms", fetchDuration.Milliseconds())
	s.activity.Record(ctx, activity.TypeRefreshSucceeded, actor,
		fmt.Sprintf("Dashboard refreshed with %d clients", snap.Stats.TotalClients), snap.Stats)

	return &snap, nil
}

// Current returns the last good snapshot. Before the first successful refresh
// it is empty and Loaded reports false.
func (s *Service) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Clients returns current records whose status matches filter. An empty filter
// returns every record.
func (s *Service) Clients(filter string) ([]sheetdata.ClientRecord, error) {
	snap := s.Current()
	if strings.TrimSpace(filter) == "" {
		return snap.Clients, nil
	}
	status, err := ParseStatusFilter(filter)
	if err != nil {
		return nil, err
	}
	return sheetdata.FilterByStatus(snap.Clients, status), nil
}

// ParseStatusFilter resolves a filter value such as "completed" or
// "in_progress" to an exact status. Unlike sheetdata.NormalizeStatus it
// rejects unknown values.
func ParseStatusFilter(filter string) (sheetdata.Status, error) {
	key := strings.ToLower(strings.TrimSpace(filter))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	for _, st := range []sheetdata.Status{
		sheetdata.StatusCompleted,
		sheetdata.StatusInProgress,
		sheetdata.StatusPending,
		sheetdata.StatusCancelled,
	} {
		if strings.ToLower(string(st)) == key {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, filter)
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, activity.ActivityType, string, string, any) {}

type noopMetrics struct{}

func (noopMetrics) ObserveRefresh(bool, time.Duration) {}
func (noopMetrics) SetDashboard(int, int)              {}
