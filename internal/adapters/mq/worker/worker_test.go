package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/crickdash/internal/adapters/mq/queue"
	worker "github.com/okian/crickdash/internal/adapters/mq/worker"
	"github.com/okian/crickdash/internal/domain/conversation"
	logging "github.com/okian/crickdash/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	jobs chan queue.Job
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 64)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	close(mq.jobs)
	return nil
}

type recordingDispatcher struct {
	mu        sync.Mutex
	seen      []string
	abandoned []string
	block     bool
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, ex conversation.Exchange) bool {
	d.mu.Lock()
	d.seen = append(d.seen, ex.ID)
	block := d.block
	d.mu.Unlock()
	if block {
		<-ctx.Done()
	}
	return true
}

func (d *recordingDispatcher) Resolve(_ context.Context, ex conversation.Exchange, _ string, err error) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if errors.Is(err, queue.ErrQueueClosed) {
		d.abandoned = append(d.abandoned, ex.ID)
	}
	return true
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

func (d *recordingDispatcher) settled() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen) + len(d.abandoned)
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		_ = logging.Init()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		mq := newMockQueue()
		target := &recordingDispatcher{}

		convey.Convey("When creating a worker with custom options", func() {
			w := worker.NewInMemoryWorker(mq, worker.WithName("w-1"), worker.WithLogger(logging.Get()))
			convey.So(w, convey.ShouldNotBeNil)
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(mq)
			go w.Run(ctx)

			convey.Convey("And jobs arrive", func() {
				mq.jobs <- queue.Job{Exchange: conversation.Exchange{ID: "ex-1"}, Target: target}
				mq.jobs <- queue.Job{Exchange: conversation.Exchange{ID: "ex-2"}}
				mq.jobs <- queue.Job{Exchange: conversation.Exchange{ID: "ex-3"}, Target: target}

				convey.Convey("Then jobs with a target are dispatched in order", func() {
					convey.So(waitFor(func() bool { return target.count() == 2 }), convey.ShouldBeTrue)
					target.mu.Lock()
					convey.So(target.seen, convey.ShouldResemble, []string{"ex-1", "ex-3"})
					target.mu.Unlock()
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the queue channel is closed", func() {
			w := worker.NewInMemoryWorker(mq)
			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()
			_ = mq.Close()

			convey.Convey("Then the worker stops", func() {
				select {
				case <-done:
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("worker did not stop", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a worker pool over an in-memory queue", t, func() {
		_ = logging.Init()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := queue.NewInMemoryQueue(queue.WithCapacity(256))
		target := &recordingDispatcher{}

		convey.Convey("When creating a pool with a non-positive count", func() {
			p := worker.NewPool(0, q)
			convey.So(p.Size(), convey.ShouldBeGreaterThan, 0)
		})

		convey.Convey("When processing many jobs", func() {
			p := worker.NewPool(4, q)
			p.Start(ctx)
			for i := 0; i < 100; i++ {
				convey.So(q.Enqueue(ctx, queue.Job{Exchange: conversation.Exchange{ID: fmt.Sprintf("ex-%d", i)}, Target: target}), convey.ShouldBeTrue)
			}

			convey.Convey("Then all jobs are dispatched and shutdown is clean", func() {
				convey.So(waitFor(func() bool { return target.count() == 100 }), convey.ShouldBeTrue)
				convey.So(p.Shutdown(context.Background()), convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestWorkerPool_ShutdownSettlesQueuedJobs(t *testing.T) {
	convey.Convey("Given a pool whose start context has ended", t, func() {
		_ = logging.Init()
		ctx, cancel := context.WithCancel(context.Background())
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		target := &recordingDispatcher{}
		p := worker.NewPool(2, q)
		p.Start(ctx)
		cancel()

		for i := 0; i < 3; i++ {
			convey.So(q.Enqueue(context.Background(), queue.Job{Exchange: conversation.Exchange{ID: fmt.Sprintf("ex-%d", i)}, Target: target}), convey.ShouldBeTrue)
		}

		convey.Convey("When the pool shuts down", func() {
			convey.So(p.Shutdown(context.Background()), convey.ShouldBeNil)

			convey.Convey("Then no queued job is left unsettled", func() {
				convey.So(waitFor(func() bool { return target.settled() == 3 }), convey.ShouldBeTrue)
				convey.So(q.Len(context.Background()), convey.ShouldEqual, 0)
			})
		})
	})

	convey.Convey("Given a pool whose only worker is stuck on a reply", t, func() {
		_ = logging.Init()
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		target := &recordingDispatcher{block: true}
		p := worker.NewPool(1, q)
		p.Start(context.Background())

		for i := 0; i < 3; i++ {
			convey.So(q.Enqueue(context.Background(), queue.Job{Exchange: conversation.Exchange{ID: fmt.Sprintf("ex-%d", i)}, Target: target}), convey.ShouldBeTrue)
		}
		convey.So(waitFor(func() bool { return target.count() >= 1 }), convey.ShouldBeTrue)

		convey.Convey("When shutdown times out", func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer stop()
			err := p.Shutdown(shutdownCtx)

			convey.Convey("Then the stuck reply is released and the rest are abandoned", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(waitFor(func() bool { return target.settled() == 3 }), convey.ShouldBeTrue)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
