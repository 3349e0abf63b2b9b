package entity

import "errors"

var (
	// ErrInvalidDateFormat reports a target date that is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

	// ErrInvalidHourRange reports hours outside 0-23 or an inverted range.
	ErrInvalidHourRange = errors.New("invalid hour range, expected 0 <= start <= end <= 23")
)
