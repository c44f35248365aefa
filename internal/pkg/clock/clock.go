package clock

import "time"

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production clock implementation backed by time.Now.
type TimeClocker struct{}

// New returns a TimeClocker that reads the current system time.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// FixedClocker always reports the same instant.
type FixedClocker struct {
	at time.Time
}

// NewFixed returns a Clocker frozen at t.
func NewFixed(t time.Time) *FixedClocker {
	return &FixedClocker{at: t}
}

// Now returns the frozen instant.
func (c *FixedClocker) Now() time.Time {
	return c.at
}

// UnixSeconds returns whole seconds elapsed since the Unix epoch.
// It fails when t lies before the epoch, which only happens with a badly
// misconfigured system clock.
func UnixSeconds(t time.Time) (uint64, error) {
	sec := t.Unix()
	if sec < 0 {
		return 0, ErrBeforeEpoch
	}
	return uint64(sec), nil
}
