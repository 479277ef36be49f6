// Package errors defines the error kinds shared by every layer. Domain packages wrap
// these sentinels; transports classify with KindOf instead of matching each domain error.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per Kind.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a clash with existing data, such as a duplicate key.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the caller sent data that fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the caller presented credentials that do not grant access.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a required dependency could not be reached.
	// Callers may retry the whole operation.
	ErrUnavailable = errors.New("unavailable")
)

// Kind is the stable, client-facing classification of an error.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindInvalidInput Kind = "invalid_input"
	KindConflict     Kind = "conflict"
	KindUnavailable  Kind = "service_unavailable"
	KindInternal     Kind = "internal_error"
)

// kinds is checked in order; the first sentinel found in the chain wins.
var kinds = []struct {
	sentinel error
	kind     Kind
}{
	{ErrNotFound, KindNotFound},
	{ErrForbidden, KindForbidden},
	{ErrInvalidInput, KindInvalidInput},
	{ErrConflict, KindConflict},
	{ErrUnavailable, KindUnavailable},
}

// KindOf classifies err. Errors that wrap none of the sentinels are KindInternal.
// A nil error has no kind and yields the empty string.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}

func New(message string) error {
	return errors.New(message)
}

// Wrap adds context to err while keeping it matchable with Is. Wrap(nil, ...) is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error matching every non-nil member, or nil if there is none.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
