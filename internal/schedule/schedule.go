package schedule

import "time"

// Clock abstracts wall-clock reads and timer creation so flows can be driven
// deterministically in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

// System returns a Clock backed by the time package.
func System() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Scheduler owns the single pending scheduled effect of one flow. Scheduling a
// new effect or stopping the scheduler invalidates whatever was pending, so a
// callback that already fired on the timer goroutine applies nothing unless it
// can still claim its token.
//
// The Scheduler is not safe for concurrent use on its own; the owning session
// serializes After/Claim/Stop behind its lock, and timer callbacks re-enter
// through the same lock before claiming.
type Scheduler struct {
	clock Clock
	seq   uint64
	timer Timer
}

// NewScheduler builds a scheduler on the given clock.
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// After cancels any pending effect and schedules fn to run after d. The token
// passed to fn must be claimed with Claim before the effect is applied; a
// failed claim means the flow transitioned away and the effect is stale.
func (s *Scheduler) After(d time.Duration, fn func(token uint64)) {
	s.Stop()
	s.seq++
	token := s.seq
	s.timer = s.clock.AfterFunc(d, func() { fn(token) })
}

// Claim reports whether token still identifies the pending effect and, if so,
// consumes it. A stale token (superseded or stopped) returns false.
func (s *Scheduler) Claim(token uint64) bool {
	if s.timer == nil || token != s.seq {
		return false
	}
	s.timer = nil
	return true
}

// Stop cancels the pending effect, if any. Fired-but-unclaimed callbacks are
// invalidated as well.
func (s *Scheduler) Stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
}

// Pending reports whether an effect is scheduled and unclaimed.
func (s *Scheduler) Pending() bool {
	return s.timer != nil
}
