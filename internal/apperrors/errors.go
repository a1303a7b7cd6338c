// Package apperrors defines the errors the show service reports to its callers.
// Each type matches any other value of the same type with errors.Is, so
// callers can test the kind of failure with a zero value:
//
//	errors.Is(err, &apperrors.ErrNotFound{})
package apperrors

import "fmt"

// ErrNotFound is returned when no show lives at a position or under an entry ID.
type ErrNotFound struct {
	Resource string
	// Key is the position or entry ID as the client sent it.
	Key any
}

func (e *ErrNotFound) Error() string {
	if e.Key == nil {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, fmt.Sprint(e.Key))
}

func (e *ErrNotFound) Is(target error) bool { return sameKind[*ErrNotFound](target) }

// NewShowNotFoundError reports a missing show addressed by key.
func NewShowNotFoundError(key any) *ErrNotFound {
	return &ErrNotFound{Resource: "show", Key: key}
}

// ErrInvalidShow is returned when strict input rejects a show. Reason is
// shown to the client as is.
type ErrInvalidShow struct {
	Reason string
}

func (e *ErrInvalidShow) Error() string { return "invalid show: " + e.Reason }

func (e *ErrInvalidShow) Is(target error) bool { return sameKind[*ErrInvalidShow](target) }

// ErrMalformedBody is returned when a request body cannot be decoded.
type ErrMalformedBody struct {
	ContentType string
	Err         error
}

func (e *ErrMalformedBody) Error() string {
	return fmt.Sprintf("malformed %s body: %v", e.ContentType, e.Err)
}

func (e *ErrMalformedBody) Unwrap() error { return e.Err }

func (e *ErrMalformedBody) Is(target error) bool { return sameKind[*ErrMalformedBody](target) }

func sameKind[T error](target error) bool {
	_, ok := target.(T)
	return ok
}
