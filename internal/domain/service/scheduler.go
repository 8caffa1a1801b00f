package service

import "time"

// Scheduler issues the delayed events behind the simulated verification
// and payment substeps. Callbacks run on their own goroutine; the caller
// is responsible for discarding a callback whose originating state has
// been superseded. Cancel is best-effort: a callback already in flight
// must still pass the caller's supersession check.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}
