package clock

import "time"

// Clock supplies the render date and banner timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

var _ Clock = (*FakeClock)(nil)
