package clock

import "time"

// Clock supplies the current time. The booking engine derives "today" and the
// cancellation window from it, so it is injected to keep time-dependent logic
// testable.
type Clock interface {
	Now() time.Time
}

// System is the wall-clock implementation used in production.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Today truncates the clock's current time to a UTC calendar date.
func Today(c Clock) time.Time {
	y, m, d := c.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
