// Package apperror defines the error taxonomy shared by the scheduling core and its
// transport. Every domain failure is one of the typed errors below and matches its
// sentinel through errors.Is; anything else is an internal failure.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors used for errors.Is matching.
var (
	// ErrNotFound matches *NotFoundError.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict matches *ConflictError.
	ErrConflict = errors.New("conflict")

	// ErrValidation matches *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition matches *TransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// NotFoundError names the missing entity type and the id that was looked up.
type NotFoundError struct {
	Entity string
	ID     string
}

func NotFound(entity, id string) *NotFoundError { return &NotFoundError{Entity: entity, ID: id} }

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictKind tells callers which rule rejected the request.
type ConflictKind string

const (
	ConflictTimeOverlap        ConflictKind = "time_overlap"
	ConflictCompletedDeletion  ConflictKind = "completed_deletion"
	ConflictCompletedImmutable ConflictKind = "completed_immutable"
)

type ConflictError struct {
	Kind    ConflictKind
	Message string
	// ConflictingID is the existing assignment that overlaps, when known.
	ConflictingID string
}

func (e *ConflictError) Error() string {
	if e.ConflictingID != "" {
		return fmt.Sprintf("%s (assignment %s)", e.Message, e.ConflictingID)
	}
	return e.Message
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func TimeOverlap(conflictingID string) *ConflictError {
	return &ConflictError{
		Kind:          ConflictTimeOverlap,
		Message:       "Time conflict with existing assignment on this land plot",
		ConflictingID: conflictingID,
	}
}

func CompletedDeletion() *ConflictError {
	return &ConflictError{Kind: ConflictCompletedDeletion, Message: "Cannot delete completed assignment"}
}

func CompletedImmutable() *ConflictError {
	return &ConflictError{Kind: ConflictCompletedImmutable, Message: "Cannot change the time window of a completed assignment"}
}

type ValidationError struct {
	Field  string
	Reason string
}

func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// TransitionError reports a status change the lifecycle does not permit.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move assignment from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// ConflictKindOf returns the conflict kind carried by err, or "" if err is not a conflict.
func ConflictKindOf(err error) ConflictKind {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
