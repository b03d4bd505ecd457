package hostwatcher

import (
	"sync"

	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

type queuedEvent struct {
	eventType utils.EventType
	event     events.Event
}

// eventQueue decouples the ring buffer readers from the receivers. It
// mirrors the kernel-side backpressure policy: a full queue drops the event
// instead of blocking the reader, so slow receivers can never stall the
// capture path.
type eventQueue struct {
	ch     chan queuedEvent
	mu     sync.RWMutex
	closed bool
}

func newEventQueue(size int) *eventQueue {
	return &eventQueue{
		ch: make(chan queuedEvent, size),
	}
}

// enqueue attempts a non-blocking handoff and reports whether the event was
// accepted. A false return means the event is gone; the caller only counts
// it. Enqueue on a closed queue is a drop, not a panic: during shutdown a
// reader goroutine may still be delivering a record it picked up before its
// reader was closed.
func (q *eventQueue) enqueue(eventType utils.EventType, event events.Event) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.ch <- queuedEvent{eventType: eventType, event: event}:
		return true
	default:
		return false
	}
}

func (q *eventQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
