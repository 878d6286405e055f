// SPDX-License-Identifier: EPL-2.0

package transport

// DropObserver is notified when a queue has to drop a message because it
// is full. Passing nil is valid everywhere an observer is accepted; all
// three queue types treat a nil observer as "don't record drops".
type DropObserver interface {
	CommandDropped()
	NotificationDropped()
	GCDropped()
}

// CommandQueue is a bounded, single-producer-friendly, multi-producer-safe
// channel of Commands with non-blocking send: TrySend never waits for
// room, so a caller on the realtime thread (or a control thread under
// contention) cannot be stalled by a slow or stopped consumer.
type CommandQueue struct {
	ch       chan Command
	observer DropObserver
}

// NewCommandQueue allocates a CommandQueue with room for capacity
// in-flight commands.
func NewCommandQueue(capacity int, observer DropObserver) *CommandQueue {
	return &CommandQueue{ch: make(chan Command, capacity), observer: observer}
}

// TrySend enqueues c, returning false and dropping c if the queue is full.
func (q *CommandQueue) TrySend(c Command) bool {
	select {
	case q.ch <- c:
		return true
	default:
		if q.observer != nil {
			q.observer.CommandDropped()
		}
		return false
	}
}

// Receive pops the next queued command, if any, without blocking.
func (q *CommandQueue) Receive() (Command, bool) {
	select {
	case c := <-q.ch:
		return c, true
	default:
		return Command{}, false
	}
}

// Len reports the number of commands currently queued.
func (q *CommandQueue) Len() int { return len(q.ch) }

// NotificationQueue is the realtime-to-control counterpart of
// CommandQueue, with the same non-blocking-send contract.
type NotificationQueue struct {
	ch       chan Notification
	observer DropObserver
}

func NewNotificationQueue(capacity int, observer DropObserver) *NotificationQueue {
	return &NotificationQueue{ch: make(chan Notification, capacity), observer: observer}
}

func (q *NotificationQueue) TrySend(n Notification) bool {
	select {
	case q.ch <- n:
		return true
	default:
		if q.observer != nil {
			q.observer.NotificationDropped()
		}
		return false
	}
}

func (q *NotificationQueue) Receive() (Notification, bool) {
	select {
	case n := <-q.ch:
		return n, true
	default:
		return Notification{}, false
	}
}

func (q *NotificationQueue) Len() int { return len(q.ch) }

// GCQueue carries objects the realtime thread has retired (removed graph
// nodes, and the ids of their removed edges) to a background goroutine
// that can free them
// without the realtime thread ever calling into the allocator.
type GCQueue struct {
	ch       chan any
	observer DropObserver
}

func NewGCQueue(capacity int, observer DropObserver) *GCQueue {
	return &GCQueue{ch: make(chan any, capacity), observer: observer}
}

func (q *GCQueue) TrySend(v any) bool {
	select {
	case q.ch <- v:
		return true
	default:
		if q.observer != nil {
			q.observer.GCDropped()
		}
		return false
	}
}

func (q *GCQueue) Receive() (any, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		return nil, false
	}
}

func (q *GCQueue) Len() int { return len(q.ch) }

// Run drains the queue until stop is closed, discarding each retired
// value (its finalizer, if any, does the real work). This is the GC
// worker thread's main loop; unlike the other two queues it blocks,
// because blocking here never touches the realtime thread.
func (q *GCQueue) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-q.ch:
		}
	}
}
