package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQueueFull is returned by MemoryQueue.Push when the buffer is exhausted.
var ErrQueueFull = errors.New("queue full")

// Queue is a FIFO of request IDs awaiting certificate rendering.
type Queue interface {
	Push(ctx context.Context, id string) error
	// Pop waits up to timeout for an item. ok is false on timeout.
	Pop(ctx context.Context, timeout time.Duration) (id string, ok bool, err error)
	// TryPop returns immediately. ok is false when the queue is empty.
	TryPop(ctx context.Context) (id string, ok bool, err error)
	// Len reports the number of queued items.
	Len(ctx context.Context) (int64, error)
}

// MemoryQueue is a buffered-channel Queue for single-process deployments.
type MemoryQueue struct {
	items chan string
}

// NewMemoryQueue creates a MemoryQueue holding up to size items.
func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{items: make(chan string, size)}
}

func (q *MemoryQueue) Push(_ context.Context, id string) error {
	select {
	case q.items <- id:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Pop(ctx context.Context, timeout time.Duration) (string, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case id := <-q.items:
		return id, true, nil
	case <-timer.C:
		return "", false, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

func (q *MemoryQueue) TryPop(_ context.Context) (string, bool, error) {
	select {
	case id := <-q.items:
		return id, true, nil
	default:
		return "", false, nil
	}
}

func (q *MemoryQueue) Len(_ context.Context) (int64, error) {
	return int64(len(q.items)), nil
}

// RedisQueue is a Redis list consumed with BLPOP.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

// NewRedisQueue creates a RedisQueue on the list key.
func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

func (q *RedisQueue) Push(ctx context.Context, id string) error {
	if err := q.rdb.RPush(ctx, q.key, id).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", q.key, err)
	}
	return nil
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (string, bool, error) {
	result, err := q.rdb.BLPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	if len(result) < 2 {
		return "", false, nil
	}
	return result[1], true, nil
}

func (q *RedisQueue) TryPop(ctx context.Context) (string, bool, error) {
	id, err := q.rdb.LPop(ctx, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return id, true, nil
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.rdb.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("llen %s: %w", q.key, err)
	}
	return n, nil
}
