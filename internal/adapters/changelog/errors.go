package changelog

import "errors"

// Sentinel kinds for change-log errors.
var (
	ErrMalformedEntry = errors.New("malformed change-log entry")
)
