// Package session — the join-window countdown.
package session

import (
	"sync"
	"time"
)

// Countdown fires a callback once the join window expires unless stopped
// first. Safe for concurrent use.
type Countdown struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// StartCountdown arms a timer that calls onExpire after d. onExpire runs in
// its own goroutine.
//
// Precondition: d > 0; onExpire must not be nil.
// Postcondition: onExpire will be called once unless Stop wins first.
func StartCountdown(d time.Duration, onExpire func()) *Countdown {
	if d <= 0 {
		panic("session: StartCountdown called with non-positive duration")
	}
	if onExpire == nil {
		panic("session: StartCountdown called with nil callback")
	}
	c := &Countdown{}
	c.timer = time.AfterFunc(d, func() {
		c.mu.Lock()
		stopped := c.stopped
		c.mu.Unlock()
		if !stopped {
			onExpire()
		}
	})
	return c
}

// Stop cancels the countdown. Safe to call repeatedly; after the first Stop
// returns, onExpire will not begin.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.timer.Stop()
}
