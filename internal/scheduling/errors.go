package scheduling

import "errors"

// Error kinds surfaced by the scheduling core. Every invariant check
// fails with exactly one of these, wrapped with context; callers match
// with errors.Is. Nothing is retried and no invalid request is coerced
// into a different valid one.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrFull         = errors.New("workshop is full")
	ErrDuplicate    = errors.New("duplicate")

	ErrCycleDetected = errors.New("cycle detected")
	ErrSelfReference = errors.New("capability cannot depend on itself")
	ErrHasDependents = errors.New("capability has dependents")
)

// Caller is the identity the surrounding auth layer resolved for the
// request. Admin short-circuits ownership checks.
type Caller struct {
	UserID string
	Admin  bool
}
