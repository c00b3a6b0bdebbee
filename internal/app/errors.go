package app

import "errors"

var (
	// ErrInvalidPlayerID indicates a non-positive player identifier.
	ErrInvalidPlayerID = errors.New("invalid player id")

	// ErrInvalidScore indicates a NaN or infinite score value.
	ErrInvalidScore = errors.New("invalid score")

	// ErrInvalidTopK indicates a non-positive top-K request.
	ErrInvalidTopK = errors.New("invalid top-k")
)
