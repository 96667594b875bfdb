// Package queue buffers chat exchanges between the HTTP handler that begins
// them and the workers that call the reply service.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/crickdash/internal/domain/conversation"
	"github.com/okian/crickdash/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Dispatcher resolves an exchange. *conversation.Session implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, ex conversation.Exchange) bool
	Resolve(ctx context.Context, ex conversation.Exchange, reply string, err error) bool
}

// Job is one exchange waiting for a worker.
type Job struct {
	Exchange   conversation.Exchange
	Target     Dispatcher
	EnqueuedAt time.Time
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It returns false if the queue is full or closed.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns a channel of jobs that is closed with the queue.
	Dequeue(ctx context.Context) <-chan Job

	Len(ctx context.Context) int

	// Close stops accepting jobs; queued jobs remain readable.
	Close() error

	// Drain abandons every job still buffered in a closed queue.
	Drain(ctx context.Context) int

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)
	return q
}

// Enqueue adds a job to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}
	if j.EnqueuedAt.IsZero() {
		j.EnqueuedAt = time.Now()
	}

	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		q.updateGauges()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that receives jobs as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for j := range q.jobs {
			select {
			case out <- j:
				metrics.RecordQueueDequeue()
				q.updateGauges()
			case <-ctx.Done():
				abandon(ctx, j)
				return
			}
		}
	}()
	return out
}

// Drain resolves every job left in a closed queue with ErrQueueClosed and
// returns how many it abandoned. An open queue is left untouched.
func (q *InMemoryQueue) Drain(ctx context.Context) int {
	if !q.IsClosed() {
		return 0
	}
	n := 0
	for j := range q.jobs {
		abandon(ctx, j)
		n++
	}
	q.updateGauges()
	return n
}

// abandon settles a job no worker will run so its session leaves Awaiting.
func abandon(ctx context.Context, j Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	metrics.RecordErrorByComponent("queue", "abandoned")
	if j.Target == nil {
		return
	}
	j.Target.Resolve(context.WithoutCancel(ctx), j.Exchange, "", ErrQueueClosed)
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return q.updateGauges()
}

func (q *InMemoryQueue) updateGauges() int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
