package service

import "errors"

// Shared error taxonomy surfaced to handlers. Guarded lookups deliberately
// collapse "absent" into ErrAccessDenied so callers cannot probe for the
// existence of resources they may not see.
var (
	ErrAccessDenied     = errors.New("access denied")
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUpstream         = errors.New("upstream service failure")
)
