package homesearch

import "github.com/kailas-cloud/homesearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery   = domain.ErrInvalidQuery
	ErrEmptyQuery     = domain.ErrEmptyQuery
	ErrQueryTooShort  = domain.ErrQueryTooShort
	ErrQueryTooLong   = domain.ErrQueryTooLong
	ErrAccessDenied   = domain.ErrAccessDenied
	ErrTimeout        = domain.ErrTimeout
	ErrTooManyResults = domain.ErrTooManyResults
	ErrInternal       = domain.ErrInternal
)

// ErrorKind classifies a failed call.
type ErrorKind = domain.ErrorKind

// Error kinds.
const (
	KindInvalidQuery   = domain.KindInvalidQuery
	KindAccessDenied   = domain.KindAccessDenied
	KindTimeout        = domain.KindTimeout
	KindTooManyResults = domain.KindTooManyResults
	KindInternal       = domain.KindInternal
)

// KindOf classifies err. Unknown errors are internal; nil has no kind.
func KindOf(err error) ErrorKind { return domain.KindOf(err) }
