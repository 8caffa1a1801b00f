// Package scheduler provides the wall-clock implementation of the
// delayed-event scheduler.
package scheduler

import (
	"time"

	"tabletab/internal/domain/service"
)

type timerScheduler struct{}

// New returns a Scheduler backed by time.AfterFunc.
func New() service.Scheduler {
	return timerScheduler{}
}

// Schedule runs fn after delay. The returned cancel stops the timer if it
// has not fired yet.
func (timerScheduler) Schedule(delay time.Duration, fn func()) (cancel func()) {
	timer := time.AfterFunc(delay, fn)

	return func() { timer.Stop() }
}
