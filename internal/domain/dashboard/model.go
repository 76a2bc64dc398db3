package dashboard

import (
	"time"

	"github.com/rpggio/shutterboard/internal/domain/sheetdata"
)

// Snapshot is the output of one successful fetch.
type Snapshot struct {
	Clients   []sheetdata.ClientRecord `json:"clients"`
	Stats     sheetdata.DashboardStats `json:"stats"`
	Revenue   []sheetdata.RevenuePoint `json:"revenue"`
	FetchedAt time.Time                `json:"fetched_at"`
}

// Loaded reports whether the snapshot came from a fetch.
func (s Snapshot) Loaded() bool {
	return !s.FetchedAt.IsZero()
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Clients: []sheetdata.ClientRecord{},
		Revenue: []sheetdata.RevenuePoint{},
	}
}
