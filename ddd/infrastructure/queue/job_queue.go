package queue

import (
	"context"
	"fmt"
	"sync"

	"vod-service/ddd/domain/entity"
)

// JobQueue 进程内任务队列，衔接投递触发与Worker池。
// 耐久性由任务表与Kafka承担，这里只负责FIFO分发。
type JobQueue interface {
	Enqueue(ctx context.Context, job *entity.TranscodeJobEntity) error
	Dequeue(ctx context.Context) (*entity.TranscodeJobEntity, error)
	Size() int
	Close() error
	IsClosed() bool
}

type memoryJobQueue struct {
	queue  chan *entity.TranscodeJobEntity
	closed bool
	mu     sync.RWMutex
}

// NewMemoryJobQueue 创建有界内存队列
func NewMemoryJobQueue(capacity int) JobQueue {
	if capacity <= 0 {
		capacity = 100
	}
	return &memoryJobQueue{queue: make(chan *entity.TranscodeJobEntity, capacity)}
}

func (q *memoryJobQueue) Enqueue(ctx context.Context, job *entity.TranscodeJobEntity) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return fmt.Errorf("queue is closed")
	}
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}
	select {
	case q.queue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("queue is full")
	}
}

func (q *memoryJobQueue) Dequeue(ctx context.Context) (*entity.TranscodeJobEntity, error) {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return nil, fmt.Errorf("queue is closed")
	}
	ch := q.queue
	q.mu.RUnlock()

	select {
	case job, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("queue is closed")
		}
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *memoryJobQueue) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return 0
	}
	return len(q.queue)
}

func (q *memoryJobQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.queue)
	return nil
}

func (q *memoryJobQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
