package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing odometer reading, unknown route).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNoRecords is returned by report functions when no trip records fall
// inside the requested month or day. Reports distinguish "nothing filed yet"
// from a computed zero-row table; handlers map this to HTTP 404 with a
// no_records code.
var ErrNoRecords = errors.New("no records")
