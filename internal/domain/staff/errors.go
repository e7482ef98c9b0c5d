package staff

import "errors"

var (
	ErrAccountNotFound = errors.New("staff account not found")
	ErrAccountInactive = errors.New("staff account is disabled")
	ErrMemberNotFound  = errors.New("member not found")
	ErrMemberLinked    = errors.New("member already linked to another account")
)
