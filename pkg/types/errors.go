package types

import "errors"

// ErrFetch matches every *FetchError via errors.Is.
var ErrFetch = errors.New("fetch failed")

// Column errors. The view-model ignores bad column ids; callers that take
// column names from a user validate them first and report these.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrSortDisabled   = errors.New("sorting is not enabled for column")
	ErrFilterDisabled = errors.New("filtering is not enabled for column")
)

// Record lookup errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidID    = errors.New("invalid user ID")
)
