package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

var ErrQueueClosed = errors.New("queue is closed")

// MemoryQueue runs delivery jobs in-process. It is used when no broker is
// configured and by tests.
type MemoryQueue struct {
	jobs    chan DeliveryJob
	mu      sync.RWMutex
	closed  bool
	workers sync.WaitGroup
}

func NewMemoryQueue(buffer int) *MemoryQueue {
	if buffer <= 0 {
		buffer = 1024
	}
	return &MemoryQueue{jobs: make(chan DeliveryJob, buffer)}
}

func (q *MemoryQueue) PublishDelivery(ctx context.Context, job DeliveryJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches concurrency consumers that hand jobs to handler. Handler
// errors are logged and the job is dropped.
func (q *MemoryQueue) Start(ctx context.Context, handler DeliveryHandler, concurrency int) {
	if concurrency <= 0 {
		concurrency = 1
	}
	log := logger.WithComponent("memory-queue")

	for i := 0; i < concurrency; i++ {
		q.workers.Add(1)
		go func() {
			defer q.workers.Done()
			for job := range q.jobs {
				if err := handler.HandleDelivery(ctx, job); err != nil {
					log.Error().Err(err).Str("log_id", job.LogID).Msg("delivery job failed")
				}
			}
		}()
	}
}

// Close stops accepting jobs and waits for the queued ones to drain.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	q.workers.Wait()
}
