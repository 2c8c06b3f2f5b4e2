package composer

import "time"

// DefaultFeedbackDelay is how long a copy result stays visible.
const DefaultFeedbackDelay = 1800 * time.Millisecond

// Timer is a handle to a pending scheduled action.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. *time.Timer satisfies Timer.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// setFeedback must be called with c.mu held. It replaces the pending reset
// (if any) and arms a new one for non-idle values.
func (c *Composer) setFeedback(f Feedback) {
	c.state.CopyFeedback = f
	c.feedbackGen++
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	if f == FeedbackIdle {
		return
	}
	gen := c.feedbackGen
	c.resetTimer = c.sched.AfterFunc(c.delay, func() { c.expireFeedback(gen) })
}

// expireFeedback clears the feedback only if no newer status was set since
// the timer for gen was armed.
func (c *Composer) expireFeedback(gen uint64) {
	c.mu.Lock()
	if c.feedbackGen != gen {
		c.mu.Unlock()
		return
	}
	c.state.CopyFeedback = FeedbackIdle
	c.feedbackGen++
	c.resetTimer = nil
	snap := c.state
	c.mu.Unlock()
	c.notify(snap)
}
