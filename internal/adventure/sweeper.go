package adventure

import (
	"sync"
	"time"
)

// Sweeper runs the engine's stale-session reaper on the configured interval.
// It satisfies the server lifecycle's Service contract: Start blocks until
// Stop is called.
type Sweeper struct {
	engine   *Engine
	stopOnce sync.Once
	stop     chan struct{}
}

// NewSweeper wraps e's sweep loop as a service.
//
// Precondition: e must be non-nil. Panics otherwise.
func NewSweeper(e *Engine) *Sweeper {
	if e == nil {
		panic("adventure: NewSweeper called with nil engine")
	}
	return &Sweeper{engine: e, stop: make(chan struct{})}
}

// Start sweeps on every tick until Stop is called.
func (s *Sweeper) Start() error {
	ticker := time.NewTicker(s.engine.game.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.engine.sweep()
		case <-s.stop:
			return nil
		}
	}
}

// Stop ends the sweep loop. Safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
