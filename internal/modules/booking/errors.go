package booking

import "errors"

var (
	ErrValidation             = errors.New("validation error")
	ErrNotFound               = errors.New("booking not found")
	ErrPermissionDenied       = errors.New("caller may not perform this transition")
	ErrInvalidStateTransition = errors.New("transition not permitted from current status")
)
