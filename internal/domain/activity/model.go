package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeRefreshSucceeded ActivityType = "refresh_succeeded"
	TypeRefreshFailed    ActivityType = "refresh_failed"
	TypeChatExchanged    ActivityType = "chat_exchanged"
	TypeChatFailed       ActivityType = "chat_failed"
)

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeRefreshSucceeded, TypeRefreshFailed, TypeChatExchanged, TypeChatFailed:
		return true
	}
	return false
}

// SystemActor marks activity that no authenticated caller triggered.
const SystemActor = "system"

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ActivityType ActivityType `json:"type"`
	Actor        string       `json:"actor"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
