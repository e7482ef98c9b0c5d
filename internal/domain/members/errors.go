package members

import "errors"

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrEmailTaken     = errors.New("email already used by another member")
	ErrRoleNotFound   = errors.New("role not found")
	ErrGroupNotFound  = errors.New("group not found")
	ErrGroupNameTaken = errors.New("group name already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrMemberInCouple = errors.New("member still belongs to a couple")
)
