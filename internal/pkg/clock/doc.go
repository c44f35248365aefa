// Package clock provides a tiny time abstraction.
//
// Production code should depend on the Clocker interface instead of calling
// time.Now() directly. Tests use FixedClocker to pin the current time, and
// UnixSeconds turns a reading into the whole-second timestamp used for
// one-time password time steps.
package clock
