package chat

import (
	"context"
	"time"

	"github.com/rpggio/shutterboard/internal/domain/activity"
	"github.com/rpggio/shutterboard/internal/domain/dashboard"
)

// Webhook delivers a message to the assistant backend.
type Webhook interface {
	Send(ctx context.Context, text string, sentAt time.Time) (Reply, error)
}

// Repository stores the transcript.
type Repository interface {
	Append(ctx context.Context, msg *Message) error
	// List returns the newest limit messages, oldest first.
	List(ctx context.Context, limit int) ([]Message, error)
}

// Refresher reloads dashboard data after the assistant edits the sheet.
type Refresher interface {
	Refresh(ctx context.Context) (*dashboard.Snapshot, error)
}

// ActivityRecorder records chat outcomes.
type ActivityRecorder interface {
	Record(ctx context.Context, typ activity.ActivityType, actor, summary string, details any)
}

// Metrics counts chat outcomes.
type Metrics interface {
	ObserveChat(ok bool)
}
