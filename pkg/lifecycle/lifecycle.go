// Package lifecycle enforces the assignment status state machine:
//
//	ASSIGNED ──> IN_PROGRESS ──> COMPLETED
//	    │             │
//	    └─────────────┴──> CANCELLED
//
// ASSIGNED may also jump straight to COMPLETED. COMPLETED and CANCELLED are
// terminal. Payment status is never touched here.
package lifecycle

import (
	"farmwork/entities"
	"farmwork/pkg/apperror"
)

var allowed = map[entities.WorkStatus][]entities.WorkStatus{
	entities.StatusAssigned:   {entities.StatusAssigned, entities.StatusInProgress, entities.StatusCompleted, entities.StatusCancelled},
	entities.StatusInProgress: {entities.StatusInProgress, entities.StatusCompleted, entities.StatusCancelled},
}

// IsTerminal reports whether s accepts no further status changes.
func IsTerminal(s entities.WorkStatus) bool {
	return s == entities.StatusCompleted || s == entities.StatusCancelled
}

// CanTransition reports whether from -> to is permitted. Re-applying the current
// status of a non-terminal assignment is a permitted no-op.
func CanTransition(from, to entities.WorkStatus) bool {
	if IsTerminal(from) {
		return false
	}
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition validates from -> to and returns a *apperror.TransitionError when refused.
func Transition(from, to entities.WorkStatus) error {
	if !CanTransition(from, to) {
		return &apperror.TransitionError{From: string(from), To: string(to)}
	}
	return nil
}

// CheckDelete refuses deletion of completed work.
func CheckDelete(s entities.WorkStatus) error {
	if s == entities.StatusCompleted {
		return apperror.CompletedDeletion()
	}
	return nil
}

// CheckReschedule refuses time window changes on completed work.
func CheckReschedule(s entities.WorkStatus) error {
	if s == entities.StatusCompleted {
		return apperror.CompletedImmutable()
	}
	return nil
}
