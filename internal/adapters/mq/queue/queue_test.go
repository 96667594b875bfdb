package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/crickdash/internal/domain/conversation"
)

func job(id string) Job {
	return Job{Exchange: conversation.Exchange{ID: id}}
}

type settleRecorder struct {
	mu       sync.Mutex
	resolved map[string]error
}

func newSettleRecorder() *settleRecorder {
	return &settleRecorder{resolved: map[string]error{}}
}

func (r *settleRecorder) Dispatch(context.Context, conversation.Exchange) bool { return true }

func (r *settleRecorder) Resolve(_ context.Context, ex conversation.Exchange, _ string, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved[ex.ID] = err
	return true
}

func (r *settleRecorder) get(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	err, ok := r.resolved[id]
	return ok, err
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, job("ex-1")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.Exchange.ID != "ex-1" {
		t.Errorf("expected ex-1, got %v", got.Exchange.ID)
	}
	if got.EnqueuedAt.IsZero() {
		t.Error("expected enqueue time to be stamped")
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("ex-1")) || !q.Enqueue(ctx, job("ex-2")) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, job("ex-3")) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Enqueue(ctx, job(fmt.Sprintf("ex-%d-%d", id, j)))
			}
		}(i)
	}
	wg.Wait()

	if l := q.Len(ctx); l != 1000 {
		t.Errorf("expected length 1000, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	q.Enqueue(ctx, job("ex-1"))
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if q.Enqueue(ctx, job("ex-2")) {
		t.Error("expected enqueue to fail after close")
	}

	var drained []string
	for j := range q.Dequeue(ctx) {
		drained = append(drained, j.Exchange.ID)
	}
	if len(drained) != 1 || drained[0] != "ex-1" {
		t.Errorf("expected queued job to drain, got %v", drained)
	}
}

func TestInMemoryQueue_Drain(t *testing.T) {
	ctx := context.Background()
	target := newSettleRecorder()
	q := NewInMemoryQueue(WithCapacity(4))

	q.Enqueue(ctx, Job{Exchange: conversation.Exchange{ID: "ex-1"}, Target: target})
	q.Enqueue(ctx, Job{Exchange: conversation.Exchange{ID: "ex-2"}, Target: target})
	q.Enqueue(ctx, job("ex-3"))

	if n := q.Drain(ctx); n != 0 {
		t.Errorf("expected open queue to be left alone, drained %d", n)
	}
	if l := q.Len(ctx); l != 3 {
		t.Errorf("expected length 3, got %d", l)
	}

	_ = q.Close()
	if n := q.Drain(ctx); n != 3 {
		t.Errorf("expected 3 abandoned jobs, got %d", n)
	}
	for _, id := range []string{"ex-1", "ex-2"} {
		ok, err := target.get(id)
		if !ok {
			t.Errorf("expected %s to be resolved", id)
			continue
		}
		if !errors.Is(err, ErrQueueClosed) {
			t.Errorf("expected ErrQueueClosed for %s, got %v", id, err)
		}
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected empty queue, got %d", l)
	}
}

func TestInMemoryQueue_DequeueCanceledSettlesHeldJob(t *testing.T) {
	target := newSettleRecorder()
	q := NewInMemoryQueue(WithCapacity(4))
	q.Enqueue(context.Background(), Job{Exchange: conversation.Exchange{ID: "ex-1"}, Target: target})

	ctx, cancel := context.WithCancel(context.Background())
	_ = q.Dequeue(ctx)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ok, _ := target.get("ex-1"); ok {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	ok, err := target.get("ex-1")
	if !ok {
		t.Fatal("expected the held job to be resolved")
	}
	if !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}
}
