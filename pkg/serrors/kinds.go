package serrors

import "errors"

// Kind names a category of failure. Only values built by NewKind satisfy it,
// so a Kind found in an error chain is always one of the categories below
// or one declared by a caller.
type Kind interface {
	error
	isKind()
}

type kind struct{ name string }

func (k kind) Error() string { return k.name }
func (k kind) isKind()       {}

// NewKind declares a category. Two kinds with the same name compare equal.
func NewKind(name string) Kind { return kind{name: name} }

// Categories understood by the HTTP layer and the operation metrics.
var (
	ErrNotFound     = NewKind("NOT_FOUND")
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	ErrForbidden    = NewKind("FORBIDDEN")
	// ErrBadRequest covers request data that fails validation.
	ErrBadRequest  = NewKind("BAD_REQUEST")
	ErrConflict    = NewKind("CONFLICT")
	ErrInternal    = NewKind("INTERNAL")
	ErrTimeout     = NewKind("TIMEOUT")
	ErrUnavailable = NewKind("UNAVAILABLE")
	ErrRateLimited = NewKind("RATE_LIMITED")

	// ErrGeocoding is returned when an address resolves to no coordinates
	// or the provider cannot be reached.
	ErrGeocoding = NewKind("GEOCODING_FAILED")
	// ErrTransaction marks a multi-record write that did not commit.
	// Nothing from it was persisted.
	ErrTransaction = NewKind("TRANSACTION_FAILED")
	// ErrStorage marks a single read or write that failed for a reason other
	// than the record being absent.
	ErrStorage = NewKind("STORAGE_FAILED")
)

// KindOf returns the outermost Kind in err's chain, or nil.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return nil
}

// MessageOf returns the message attached by the outermost *Error in err's
// chain. It is empty when no *Error carries one.
func MessageOf(err error) string {
	for err != nil {
		var serr *Error
		if !errors.As(err, &serr) {
			return ""
		}
		if serr.msg != "" {
			return serr.msg
		}
		err = serr.err
	}

	return ""
}
