package util

import (
	"time"
)

// NewDate is a shorthand for a UTC midnight date.
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
