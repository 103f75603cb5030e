package job

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// queueItem is one pending job's ordering key.
type queueItem struct {
	JobID     string
	Priority  int
	CreatedAt time.Time
	index     int
}

// priorityHeap orders by priority descending, then created_at ascending
// among ties (spec §4.G, §8 queue-ordering invariant).
type priorityHeap []*queueItem

func (h priorityHeap) Len() int { return len(h) }
func (h priorityHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].CreatedAt.Before(h[j].CreatedAt)
}
func (h priorityHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *priorityHeap) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *priorityHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// Queue is an in-process priority queue over pending job ids, drained by a
// bounded worker pool. Enqueue is serialized at the queue boundary; dequeue
// order respects (priority desc, created_at asc) (spec §5).
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	heap   priorityHeap
	items  map[string]*queueItem
	closed bool
}

// NewQueue constructs an empty queue.
func NewQueue() *Queue {
	q := &Queue{items: make(map[string]*queueItem)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue adds jobID to the queue at the given priority and creation time.
func (q *Queue) Enqueue(jobID string, priority int, createdAt time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	item := &queueItem{JobID: jobID, Priority: priority, CreatedAt: createdAt}
	heap.Push(&q.heap, item)
	q.items[jobID] = item
	q.cond.Signal()
}

// Dequeue blocks until a job is available, the queue is closed, or ctx is
// done, returning ok=false in the latter two cases.
func (q *Queue) Dequeue(ctx context.Context) (string, bool) {
	unblock := make(chan struct{})
	stopWatch := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			q.cond.Broadcast()
		case <-stopWatch:
		}
		close(unblock)
	}()
	defer func() { close(stopWatch); <-unblock }()

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.heap.Len() == 0 && !q.closed {
		if ctx.Err() != nil {
			return "", false
		}
		q.cond.Wait()
	}
	if q.heap.Len() == 0 {
		return "", false
	}
	item := heap.Pop(&q.heap).(*queueItem)
	delete(q.items, item.JobID)
	return item.JobID, true
}

// Remove cancels a still-pending (not yet dequeued) job, reporting whether
// it was present (spec §4.G cancellation: PENDING jobs are removed from the
// queue directly).
func (q *Queue) Remove(jobID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	item, ok := q.items[jobID]
	if !ok {
		return false
	}
	heap.Remove(&q.heap, item.index)
	delete(q.items, jobID)
	return true
}

// Len reports the number of pending jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}

// Close unblocks every pending Dequeue call with ok=false.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
