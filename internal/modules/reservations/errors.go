package reservations

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid reservation input")
	ErrInvalidTransition = errors.New("invalid reservation status transition")
	ErrTableUnavailable  = errors.New("table unavailable for this slot")
	ErrTableTooSmall     = errors.New("table capacity below party size")
)
