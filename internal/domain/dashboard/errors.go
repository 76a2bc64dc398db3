package dashboard

import "errors"

var (
	// ErrRefreshFailed wraps any failure of the fetch-and-parse pipeline.
	ErrRefreshFailed = errors.New("failed to fetch data from the sheet")
	// ErrInvalidStatus indicates a status filter outside the known set.
	ErrInvalidStatus = errors.New("invalid status filter")
)
