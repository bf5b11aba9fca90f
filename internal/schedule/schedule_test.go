package schedule

import (
	"testing"
	"time"
)

func TestSchedulerFiresAfterDelay(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))
	sched := NewScheduler(clock)

	fired := false
	sched.After(time.Second, func(token uint64) {
		if sched.Claim(token) {
			fired = true
		}
	})

	clock.Advance(500 * time.Millisecond)
	if fired {
		t.Fatalf("effect fired before its deadline")
	}

	clock.Advance(500 * time.Millisecond)
	if !fired {
		t.Fatalf("effect did not fire at its deadline")
	}
}

func TestSchedulerStopPreventsEffect(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))
	sched := NewScheduler(clock)

	fired := false
	sched.After(time.Second, func(token uint64) {
		if sched.Claim(token) {
			fired = true
		}
	})
	sched.Stop()

	clock.Advance(2 * time.Second)
	if fired {
		t.Fatalf("stopped effect still fired")
	}
	if sched.Pending() {
		t.Fatalf("scheduler still pending after stop")
	}
}

func TestSchedulerSupersededTokenIsStale(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))
	sched := NewScheduler(clock)

	var applied []string
	sched.After(time.Second, func(token uint64) {
		if sched.Claim(token) {
			applied = append(applied, "first")
		}
	})
	sched.After(time.Second, func(token uint64) {
		if sched.Claim(token) {
			applied = append(applied, "second")
		}
	})

	clock.Advance(time.Second)
	if len(applied) != 1 || applied[0] != "second" {
		t.Fatalf("expected only the superseding effect to apply, got %v", applied)
	}
}

func TestSchedulerClaimIsOneShot(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))
	sched := NewScheduler(clock)

	var tok uint64
	sched.After(time.Second, func(token uint64) { tok = token })
	clock.Advance(time.Second)

	if !sched.Claim(tok) {
		t.Fatalf("first claim should succeed")
	}
	if sched.Claim(tok) {
		t.Fatalf("second claim of the same token should fail")
	}
}

func TestManualClockFiresInDeadlineOrder(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))

	var order []int
	clock.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	clock.AfterFunc(time.Second, func() { order = append(order, 1) })
	clock.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	clock.Advance(5 * time.Second)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("unexpected firing order: %v", order)
	}
	if got := clock.Now(); !got.Equal(time.Unix(5, 0)) {
		t.Fatalf("clock should land on the advance target, got %v", got)
	}
}

func TestManualClockFiresRearmedTimers(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))

	ticks := 0
	var arm func()
	arm = func() {
		clock.AfterFunc(time.Second, func() {
			ticks++
			arm()
		})
	}
	arm()

	clock.Advance(5 * time.Second)
	if ticks != 5 {
		t.Fatalf("expected 5 re-armed ticks, got %d", ticks)
	}
}
