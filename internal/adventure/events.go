package adventure

import (
	"sync"

	"github.com/cory-johannsen/adventure/internal/game/encounter"
	"github.com/cory-johannsen/adventure/internal/game/session"
)

// NoticeKind tags what a Notice reports.
type NoticeKind string

const (
	NoticeStarted  NoticeKind = "started"
	NoticeJoined   NoticeKind = "joined"
	NoticeInsight  NoticeKind = "insight"
	NoticeResolved NoticeKind = "resolved"
	NoticeExpired  NoticeKind = "expired"
	NoticeAborted  NoticeKind = "aborted"
)

// Notice is one beat on the engine's feed. Only the fields relevant to the
// kind are set: Start for started, Action for joined, Reading for insight,
// Result and LevelUps for resolved, Err for aborted.
type Notice struct {
	Kind    NoticeKind
	GuildID string
	UserID  string

	Action   session.Action
	Start    *StartResult
	Reading  *InsightReading
	Result   *encounter.Result
	LevelUps []encounter.LevelUp
	Err      error
}

// Events fans notices out to subscribers. Delivery is best effort: a
// subscriber whose buffer is full misses the notice rather than stalling the
// engine.
type Events struct {
	mu     sync.Mutex
	subs   map[int]chan Notice
	nextID int
}

func NewEvents() *Events {
	return &Events{subs: make(map[int]chan Notice)}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. Cancel closes the channel; callers must stop reading after
// cancelling.
//
// Precondition: buffer must be at least 1. Panics otherwise.
func (e *Events) Subscribe(buffer int) (<-chan Notice, func()) {
	if buffer < 1 {
		panic("adventure: Subscribe called with no buffer")
	}
	ch := make(chan Notice, buffer)
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = ch
	e.mu.Unlock()
	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if sub, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers n to every subscriber with buffer room and drops it for
// the rest.
func (e *Events) Publish(n Notice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- n:
		default:
		}
	}
}
