package node

import "errors"

var (
	ErrDestroyed       = errors.New("event node destroyed")
	ErrOperationPanic  = errors.New("operation panicked")
	ErrNilOperation    = errors.New("nil operation")
	ErrInvalidDebounce = errors.New("invalid debounce options")
)
