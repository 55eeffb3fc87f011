package nn

import "github.com/pkg/errors"

// Errors returned by network construction and propagation. They are caller
// errors, except ErrNaN, which signals a modelling bug and should end the run.
var (
	ErrTopology        = errors.New("invalid topology")
	ErrParameterLength = errors.New("parameter array length does not match topology")
	ErrInputLength     = errors.New("input length does not match input layer")
	ErrNaN             = errors.New("activation produced NaN")
)
