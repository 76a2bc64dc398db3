package sheetdata

import "strings"

// NormalizeStatus maps free-text status values onto a Status.
// Anything unrecognised, including the empty string, is Pending.
func NormalizeStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case strings.Contains(s, "complete") || s == "done":
		return StatusCompleted
	case strings.Contains(s, "progress") || s == "working":
		return StatusInProgress
	case strings.Contains(s, "cancel") || s == "cancelled":
		return StatusCancelled
	default:
		return StatusPending
	}
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusInProgress, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Open reports whether the project still needs a response from the studio.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusInProgress
}
