package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_RunsEveryTaskWithBoundedConcurrency(t *testing.T) {
	const workers, n = 3, 20
	pool := NewWorkerPool[int](workers, n)
	out := pool.Run(context.Background())

	var running, peak atomic.Int32
	for i := 0; i < n; i++ {
		pool.Submit(Task[int]{Index: i, Run: func(context.Context) int {
			cur := running.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			running.Add(-1)
			return i * i
		}})
	}
	pool.Close()

	got := make(map[int]int, n)
	for res := range out {
		got[res.Index] = res.Value
	}
	assert.Len(t, got, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, i*i, got[i])
	}
	assert.LessOrEqual(t, peak.Load(), int32(workers))
}

func TestWorkerPool_DrainsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewWorkerPool[bool](2, 5)
	pool.SetRateLimit(1)
	out := pool.Run(ctx)
	for i := 0; i < 5; i++ {
		pool.Submit(Task[bool]{Index: i, Run: func(ctx context.Context) bool { return ctx.Err() != nil }})
	}
	pool.Close()

	count := 0
	for res := range out {
		assert.True(t, res.Value)
		count++
	}
	assert.Equal(t, 5, count)
}

func TestWorkerPool_IgnoresNilTask(t *testing.T) {
	pool := NewWorkerPool[int](0, 1)
	out := pool.Run(context.Background())
	pool.Submit(Task[int]{Index: 0})
	pool.Close()

	_, ok := <-out
	assert.False(t, ok)
}
