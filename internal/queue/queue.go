// Package queue holds the shared FIFO of candidates drained by the workers.
package queue

import "sync"

// Queue is a mutex-guarded FIFO. It is filled once by New and only shrinks.
type Queue struct {
	mu    sync.Mutex
	items []string
	head  int
	total int
}

func New(items []string) *Queue {
	cp := make([]string, len(items))
	copy(cp, items)
	return &Queue{items: cp, total: len(cp)}
}

// Total is the number of items the queue started with.
func (q *Queue) Total() int {
	return q.total
}

// Len is the number of items not yet popped.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Pop removes the next item. remaining is the queue length observed just
// before the removal, so Total()-remaining+1 is the 1-based position of item.
func (q *Queue) Pop() (item string, remaining int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	remaining = len(q.items) - q.head
	if remaining == 0 {
		return "", 0, false
	}
	item = q.items[q.head]
	q.items[q.head] = ""
	q.head++
	return item, remaining, true
}
