// Package eventbus is a small in-memory fanout used to decouple the polling
// loop from process-level observers (systemd status, debug logging).
package eventbus

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event types published by the bot.
const (
	// TypeCycleCompleted carries a CycleEvent after every poll cycle.
	TypeCycleCompleted = "poller.cycle"
)

// Event is a lightweight, in-memory signal.
//
// Contract:
//   - Publish never blocks.
//   - Slow subscribers drop events.
type Event struct {
	Type string
	Time time.Time
	Data any
}

// CycleEvent is the Data of a TypeCycleCompleted event.
type CycleEvent struct {
	ID       string
	Outcome  string
	ErrKind  string
	FromDate int64
}

type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

func (b *memBus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	// Sends happen under the read lock so unsubscribe (write lock) cannot
	// close a channel mid-send.
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsub
}
