package service

import "time"

// Clock returns the current time. A nil Clock reads the wall clock.
type Clock func() time.Time

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
