// Package notify collects user-facing messages produced while working with
// forms. Producers push notifications; a presentation layer drains and shows
// them whenever it is ready to.
package notify

import "sync"

// Kind classifies a notification for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a single message awaiting display.
type Notification struct {
	Kind Kind
	Text string
}

// Queue is a FIFO buffer of pending notifications, safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	pending []Notification
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a notification to the queue.
func (q *Queue) Push(kind Kind, text string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, Notification{Kind: kind, Text: text})
}

// Drain returns all pending notifications in push order and empties the
// queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.pending
	q.pending = nil
	return drained
}

// Len reports the number of pending notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
