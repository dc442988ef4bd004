package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrInvalidParameter indicates a step, horizon or coefficient the
	// discretization cannot be defined for.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrEmptyTrajectory indicates a trajectory without samples.
	ErrEmptyTrajectory = errors.New("dynamo: empty trajectory")

	// ErrLengthMismatch indicates displacement and time sequences of different length.
	ErrLengthMismatch = errors.New("dynamo: displacement and time length mismatch")
)

// ParameterError wraps ErrInvalidParameter with the offending field.
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%g %s", ErrInvalidParameter, e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}
