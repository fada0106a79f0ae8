package types

import (
	"context"
	"fmt"
)

// DataSource supplies the full user array. It is the only place where I/O
// happens; sorting, filtering and pagination are never delegated to it.
type DataSource interface {
	// FetchRecords returns every user in source order.
	// Returns a *FetchError on transport failure, a non-success response,
	// or a payload that cannot be parsed.
	FetchRecords(ctx context.Context) ([]User, error)
}

// Status is the observable state of a fetch.
type Status int

const (
	// StatusPending means no result is available yet.
	StatusPending Status = iota
	// StatusError means the last fetch failed.
	StatusError
	// StatusSuccess means records are available.
	StatusSuccess
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// FetchError reports a failed fetch. Message is meant to be shown to the
// user as is.
type FetchError struct {
	Message    string
	StatusCode int // HTTP status, 0 when not applicable
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "failed to fetch users"
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: HTTP %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }
