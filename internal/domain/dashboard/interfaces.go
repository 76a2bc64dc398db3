package dashboard

import (
	"context"
	"time"

	"github.com/rpggio/shutterboard/internal/domain/activity"
)

// SheetSource fetches the raw sheet export.
type SheetSource interface {
	Fetch(ctx context.Context) (string, error)
}

// ActivityRecorder records refresh outcomes.
type ActivityRecorder interface {
	Record(ctx context.Context, typ activity.ActivityType, actor, summary string, details any)
}

// Metrics observes refresh outcomes.
type Metrics interface {
	ObserveRefresh(ok bool, fetchDuration time.Duration)
	SetDashboard(clients, revenue int)
}
