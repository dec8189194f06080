package timer

import "time"

// Clock returns non-decreasing wall-clock timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads time.Now, which carries a monotonic reading.
var SystemClock Clock = systemClock{}

// Handle revokes one scheduled callback. Cancelling a callback that already
// ran is a no-op.
type Handle interface {
	Cancel()
}

// Scheduler invokes fn once, as soon as possible but not before the next
// frame. Callbacks must run on the same logical thread as every other
// engine call.
type Scheduler interface {
	Schedule(fn func()) Handle
}
