package sheetdata

import "errors"

// ErrMissingHeader indicates the payload had no non-blank line to use as a header.
var ErrMissingHeader = errors.New("sheet payload has no header row")
