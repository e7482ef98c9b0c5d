package programs

import "errors"

var (
	ErrProgramNotFound   = errors.New("church program not found")
	ErrAnchorRequired    = errors.New("start date is required for repeating programs")
	ErrInvalidCategory   = errors.New("invalid program category")
	ErrInvalidRecurrence = errors.New("invalid program recurrence")
	ErrInvalidInput      = errors.New("invalid input")
)
