package handlers

import (
	"errors"

	"github.com/acro-planner/acro-planner-api/internal/scheduling"
	"github.com/danielgtaylor/huma/v2"
)

// mapError translates scheduling error kinds into huma status errors.
// Huma errors pass through untouched so Authorize failures keep their
// status.
func mapError(err error) error {
	var statusErr huma.StatusError
	if errors.As(err, &statusErr) {
		return err
	}

	switch {
	case errors.Is(err, scheduling.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, scheduling.ErrForbidden):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, scheduling.ErrConflict),
		errors.Is(err, scheduling.ErrDuplicate),
		errors.Is(err, scheduling.ErrFull):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, scheduling.ErrInvalidState),
		errors.Is(err, scheduling.ErrCycleDetected),
		errors.Is(err, scheduling.ErrSelfReference),
		errors.Is(err, scheduling.ErrHasDependents):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	return huma.Error500InternalServerError("Internal error: " + err.Error())
}
