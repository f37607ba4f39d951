package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the planning pipeline distinguishes.
var (
	// ErrExternalService marks a routing/distance backend failure that was
	// not recoverable by the haversine fallback.
	ErrExternalService = errors.New("external service unavailable")

	// ErrSolverInfeasible marks a constrained solve that found no feasible
	// route under the given time windows.
	ErrSolverInfeasible = errors.New("solver found no feasible route")
)

// ValidationError reports malformed input. It fails fast and never enters
// the planning pipeline.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
