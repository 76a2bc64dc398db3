package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/shutterboard/internal/config"
	"github.com/rpggio/shutterboard/internal/domain/activity"
	"github.com/rpggio/shutterboard/internal/domain/chat"
	"github.com/rpggio/shutterboard/internal/domain/dashboard"
	"github.com/rpggio/shutterboard/internal/gsheets"
	"github.com/rpggio/shutterboard/internal/metrics"
	"github.com/rpggio/shutterboard/internal/sqlite"
	"github.com/rpggio/shutterboard/internal/webhook"
)

// app holds the wired services shared by every command.
type app struct {
	cfg    config.Config
	logger *slog.Logger

	db        *sqlite.DB
	metrics   *metrics.Recorder
	activity  *activity.Service
	dashboard *dashboard.Service
	chat      *chat.Service
	keys      *sqlite.APIKeyRepository

	closers []io.Closer
}

// newApp opens the database and wires services. Console logs go to console
// unless cfg.Log.Path is set.
func newApp(cfg config.Config, console io.Writer) (*app, error) {
	a := &app{cfg: cfg}

	logWriter := console
	if cfg.Log.Path != "" {
		file := newLogFile(cfg.Log.Path)
		a.closers = append(a.closers, file)
		logWriter = file
	}
	a.logger = newLogger(logWriter, cfg.Log)

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		a.close()
		return nil, fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db
	a.closers = append([]io.Closer{db}, a.closers...)

	if err := db.RunMigrations(); err != nil {
		a.close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	a.metrics = metrics.New()
	a.activity = activity.NewService(sqlite.NewActivityRepository(db), a.logger)
	a.dashboard = dashboard.NewService(
		gsheets.NewClient(cfg.Sheet.URL, cfg.Sheet.Timeout, a.logger),
		a.activity,
		a.metrics,
		a.logger,
	)
	a.chat = chat.NewService(
		webhook.NewClient(cfg.Chat.WebhookURL, cfg.Chat.Timeout, a.logger),
		sqlite.NewMessageRepository(db),
		a.dashboard,
		a.activity,
		a.metrics,
		a.logger,
	)
	a.keys = sqlite.NewAPIKeyRepository(db)

	return a, nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
