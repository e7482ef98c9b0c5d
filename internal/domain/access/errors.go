package access

import "errors"

var (
	ErrPendingRequestExists = errors.New("a pending access request already exists for this email")
	ErrRequestNotFound      = errors.New("access request not found")
	ErrInvalidInput         = errors.New("invalid input")
)
