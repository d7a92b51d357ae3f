// Package errors defines the typed failures the core services return, so
// the HTTP layer can map each to a distinct response.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: referenced entity is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrConflict: the operation would duplicate existing state, e.g. a
	// second friend request for the same pair in either direction.
	ErrConflict = errors.New("conflict")

	// ErrSelfReference: the caller targeted themself where that is illegal.
	ErrSelfReference = errors.New("self reference")

	// ErrTransientStore: the persistence layer failed. Retry is at the
	// caller's discretion; it is never silently dropped on a durable write.
	ErrTransientStore = errors.New("transient store error")
)

// NotFound wraps ErrNotFound with the entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

// Conflict wraps ErrConflict with a reason.
func Conflict(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

// Store wraps a driver error as ErrTransientStore, preserving the cause.
func Store(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransientStore, cause)
}

func IsNotFound(err error) bool      { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool      { return errors.Is(err, ErrConflict) }
func IsSelfReference(err error) bool { return errors.Is(err, ErrSelfReference) }
func IsTransient(err error) bool     { return errors.Is(err, ErrTransientStore) }
