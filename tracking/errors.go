/*
errors.go - Centralized error types for the tracking engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The API layer maps these onto HTTP statuses.

ERROR CATEGORIES:
  1. Edit-boundary validation - business rules on activity/user writes
  2. Board errors - illegal statuses, denied transitions, unmet dependencies
  3. Lookup errors - missing records

USAGE:
  if errors.Is(err, tracking.ErrPermissionDenied) {
      // 403
  }

SEE ALSO:
  - board.go: produces TransitionError and DependencyError
  - schedule.go: produces ErrInvalidTimeRange
  - api/handlers.go: maps errors to HTTP statuses
*/
package tracking

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidExecutionTime is returned when an activity is logged with
	// zero or negative execution time.
	ErrInvalidExecutionTime = errors.New("execution time must be greater than zero")

	// ErrObservationsRequired is returned when an activity linked to a
	// project carries no observations.
	ErrObservationsRequired = errors.New("observations required for project activities")

	// ErrOtherAreaRequired is returned when a cross-area support activity
	// does not name the requesting area.
	ErrOtherAreaRequired = errors.New("other_area required for cross-area support activities")

	// ErrInvalidTimeRange is returned when a schedule or lunch range ends
	// before it starts, or cannot be parsed. Overnight shifts are rejected,
	// never wrapped.
	ErrInvalidTimeRange = errors.New("invalid time range: end before start")

	// ErrIllegalStatus is returned when a transition names a status outside
	// the entity kind's legal set.
	ErrIllegalStatus = errors.New("status not in the legal set for this entity")

	// ErrPermissionDenied is returned when the actor lacks edit rights on
	// the entity being moved.
	ErrPermissionDenied = errors.New("actor may not edit this entity")

	// ErrDependencyUnmet is returned when a process activity with
	// incomplete dependencies is moved to in_progress.
	ErrDependencyUnmet = errors.New("dependency not completed")

	// ErrCircularDependency is returned when dependency edges form a cycle.
	// Cycles are a data-integrity violation the backend must reject.
	ErrCircularDependency = errors.New("circular dependency detected")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports an edit-boundary rule violation on a named field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransitionError reports why a status transition was refused.
type TransitionError struct {
	Kind   EntityKind
	From   string
	To     string
	Reason error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move %s from %q to %q: %v", e.Kind, e.From, e.To, e.Reason)
}

func (e *TransitionError) Unwrap() error { return e.Reason }

// DependencyError reports which dependency blocks a process activity.
type DependencyError struct {
	Activity  ProcessActivityID
	DependsOn ProcessActivityID
	Reason    error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("activity %s blocked by %s: %v", e.Activity, e.DependsOn, e.Reason)
}

func (e *DependencyError) Unwrap() error { return e.Reason }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.Is(err, ErrInvalidExecutionTime) ||
		errors.Is(err, ErrObservationsRequired) ||
		errors.Is(err, ErrOtherAreaRequired) ||
		errors.Is(err, ErrInvalidTimeRange) ||
		errors.Is(err, ErrIllegalStatus) ||
		errors.Is(err, ErrDependencyUnmet) ||
		errors.Is(err, ErrCircularDependency) ||
		errors.As(err, &ve)
}

// IsPermissionDenied returns true for authorization failures.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
