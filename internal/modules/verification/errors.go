package verification

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("verification request not found")
	ErrAlreadyDecided = errors.New("verification request already approved")
	ErrConflict       = errors.New("verification request was decided concurrently")
)
