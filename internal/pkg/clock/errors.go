package clock

import "errors"

// ErrBeforeEpoch is returned when the clock reads earlier than 1970-01-01T00:00:00Z.
var ErrBeforeEpoch = errors.New("clock: time is before unix epoch")
