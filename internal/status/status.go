package status

import "errors"

var (
	ErrNotFound     = errors.New("queue: queue not found or inactive")
	ErrInvalidState = errors.New("ticket: invalid ticket state")
)
