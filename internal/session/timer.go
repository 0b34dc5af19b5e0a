package session

import "time"

// questionTimer is the single cancelable countdown owned by the engine.
// At most one exists per engine; arming a new one requires cancelling the
// previous handle first. Cancellation is synchronous with respect to the
// engine mutex: a fire callback that loses the race observes a bumped
// generation and becomes a no-op.
type questionTimer struct {
	timer    *time.Timer
	deadline time.Time
}

func newQuestionTimer(d time.Duration, fire func()) *questionTimer {
	return &questionTimer{
		timer:    time.AfterFunc(d, fire),
		deadline: time.Now().Add(d),
	}
}

func (t *questionTimer) cancel() {
	t.timer.Stop()
}

// remaining returns the unexpired portion of the countdown, never negative.
func (t *questionTimer) remaining(now time.Time) time.Duration {
	d := t.deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
