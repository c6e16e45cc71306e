package session

import (
	"sync/atomic"
	"time"
)

// Timer is a pending deferred call.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// reconnectJob is the single pending reconnect. Once cancelled its body never
// runs, even if the timer already fired and the body is waiting for the
// session lock.
type reconnectJob struct {
	timer     Timer
	cancelled atomic.Bool
}

func scheduleReconnect(s Scheduler, delay time.Duration, fn func(*reconnectJob)) *reconnectJob {
	j := &reconnectJob{}
	j.timer = s.AfterFunc(delay, func() {
		if j.cancelled.Load() {
			return
		}
		fn(j)
	})
	return j
}

func (j *reconnectJob) Cancel() {
	if j == nil {
		return
	}
	j.cancelled.Store(true)
	if j.timer != nil {
		j.timer.Stop()
	}
}

func (j *reconnectJob) Cancelled() bool {
	return j == nil || j.cancelled.Load()
}
