package chat

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("chat not found")
	ErrPermissionDenied = errors.New("permission denied")
)
