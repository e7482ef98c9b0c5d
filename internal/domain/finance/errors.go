package finance

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDonationNotFound    = errors.New("material donation not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrInvalidInput        = errors.New("invalid input")
)
