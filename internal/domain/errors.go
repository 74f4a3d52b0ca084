package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals a blank, too short or too long query, or malformed filters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEmptyQuery signals a blank query.
	ErrEmptyQuery = fmt.Errorf("%w: query is empty", ErrInvalidQuery)
	// ErrQueryTooShort signals a query below the minimum length.
	ErrQueryTooShort = fmt.Errorf("%w: query too short", ErrInvalidQuery)
	// ErrQueryTooLong signals a query above the maximum length.
	ErrQueryTooLong = fmt.Errorf("%w: query too long", ErrInvalidQuery)

	// ErrAccessDenied signals a request without an authenticated user.
	ErrAccessDenied = errors.New("access denied")
	// ErrTimeout signals that the aggregate search exceeded its budget.
	ErrTimeout = errors.New("search timeout")
	// ErrTooManyResults signals a result set above a caller-requested hard cap.
	ErrTooManyResults = errors.New("too many results")
	// ErrInternal signals an unexpected pipeline fault.
	ErrInternal = errors.New("internal error")
)

// ErrorKind is the caller-facing classification of a search failure.
type ErrorKind string

// Error kinds.
const (
	KindNone           ErrorKind = ""
	KindInvalidQuery   ErrorKind = "invalid_query"
	KindAccessDenied   ErrorKind = "access_denied"
	KindTimeout        ErrorKind = "timeout"
	KindTooManyResults ErrorKind = "too_many_results"
	KindInternal       ErrorKind = "internal_error"
)

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidQuery):
		return KindInvalidQuery
	case errors.Is(err, ErrAccessDenied):
		return KindAccessDenied
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrTooManyResults):
		return KindTooManyResults
	default:
		return KindInternal
	}
}
