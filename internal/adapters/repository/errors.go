package repository

import "errors"

// Sentinel kinds for repository errors.
var ErrInvalidPath = errors.New("storage path is required")
