package schedule

import "errors"

var ErrInvalidRecurrence = errors.New("invalid recurrence")
