// Package common holds the error taxonomy shared by the server, the API
// client and the form controller.
package common

import "errors"

var (
	// ErrorValidation marks missing or malformed input (400).
	ErrorValidation = errors.New("validation error")
	// ErrorNotFound marks an unknown account (404).
	ErrorNotFound = errors.New("not found")
	// ErrorUnauthorized marks rejected credentials or a wrong secret answer (401).
	ErrorUnauthorized = errors.New("unauthorized")
	// ErrorConflict marks a duplicate email at registration (409).
	ErrorConflict = errors.New("already exists")
	// ErrorInternal marks anything unexpected (500).
	ErrorInternal = errors.New("internal error")
)

// ErrorKind tags a failed operation with its class in the taxonomy above.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindNotFound
	KindAuthorization
	KindConflict
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// KindOf classifies err. Errors outside the taxonomy are internal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrorValidation):
		return KindValidation
	case errors.Is(err, ErrorNotFound):
		return KindNotFound
	case errors.Is(err, ErrorUnauthorized):
		return KindAuthorization
	case errors.Is(err, ErrorConflict):
		return KindConflict
	default:
		return KindInternal
	}
}
