package domain

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the failure kinds shared by every layer.
type ErrorKind string

const (
	KindNotFound       ErrorKind = "not_found"
	KindUnauthorized   ErrorKind = "unauthorized"
	KindInvalid        ErrorKind = "invalid"
	KindDuplicated     ErrorKind = "duplicated"
	KindStorageFailure ErrorKind = "storage_failure"
	KindUnexpected     ErrorKind = "unexpected"
)

// IsInternal reports whether the kind signals a fault rather than a routine outcome.
func (k ErrorKind) IsInternal() bool {
	return k == KindStorageFailure || k == KindUnexpected
}

// Error is a classified domain failure. Resource names the entity for the
// client-facing kinds; Detail and Err describe internal faults.
type Error struct {
	Kind     ErrorKind
	Resource string
	Detail   string
	Err      error
}

var (
	// ErrNotFound matches any error of kind KindNotFound.
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrUnauthorized matches any error of kind KindUnauthorized.
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	// ErrInvalid matches any error of kind KindInvalid.
	ErrInvalid = &Error{Kind: KindInvalid}
	// ErrDuplicated matches any error of kind KindDuplicated.
	ErrDuplicated = &Error{Kind: KindDuplicated}
	// ErrStorageFailure matches any error of kind KindStorageFailure.
	ErrStorageFailure = &Error{Kind: KindStorageFailure}
	// ErrUnexpected matches any error of kind KindUnexpected.
	ErrUnexpected = &Error{Kind: KindUnexpected}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s not found", e.Resource)
	case KindUnauthorized:
		return fmt.Sprintf("%s: not authorized", e.Resource)
	case KindInvalid:
		return fmt.Sprintf("%s: validation failed", e.Resource)
	case KindDuplicated:
		return fmt.Sprintf("duplicated %s", e.Resource)
	}

	msg := string(e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so callers can compare against the
// package sentinels regardless of resource or detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NotFound reports that the addressed resource does not exist.
func NotFound(resource string) error {
	return &Error{Kind: KindNotFound, Resource: resource}
}

// Unauthorized reports that the resource exists but the caller does not own it.
func Unauthorized(resource string) error {
	return &Error{Kind: KindUnauthorized, Resource: resource}
}

// Invalid reports caller-supplied data that failed validation.
func Invalid(resource string) error {
	return &Error{Kind: KindInvalid, Resource: resource}
}

// Duplicated reports a uniqueness violation.
func Duplicated(resource string) error {
	return &Error{Kind: KindDuplicated, Resource: resource}
}

// StorageFailure wraps an error reported by the underlying store.
func StorageFailure(detail string, err error) error {
	return &Error{Kind: KindStorageFailure, Detail: detail, Err: err}
}

// Unexpected wraps any other failure.
func Unexpected(detail string, err error) error {
	return &Error{Kind: KindUnexpected, Detail: detail, Err: err}
}

// KindOf returns the kind of a classified error, or KindUnexpected for anything else.
func KindOf(err error) ErrorKind {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return KindUnexpected
}
