package rl

import "github.com/pkg/errors"

// Precondition violations reported by the trainers and the navigation task.
var (
	ErrZeroDelta     = errors.New("finite-difference delta must be non-zero")
	ErrDeltaLength   = errors.New("delta array length does not match parameters")
	ErrUnknownAction = errors.New("unknown action")
)
