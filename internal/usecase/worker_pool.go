package usecase

import (
	"context"
	"sync"
	"time"
)

type Task[R any] struct {
	Index int
	Run   func(ctx context.Context) R
}

type Result[R any] struct {
	Index int
	Value R
}

// WorkerPool runs submitted tasks on a fixed number of goroutines. Every
// submitted task runs exactly once, even after ctx is done; tasks are expected
// to observe ctx themselves.
type WorkerPool[R any] struct {
	workers int
	tasks   chan Task[R]
	wg      sync.WaitGroup
	mu      sync.RWMutex
	rate    <-chan time.Time
	ticker  *time.Ticker
}

func NewWorkerPool[R any](workers, buffer int) *WorkerPool[R] {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &WorkerPool[R]{
		workers: workers,
		tasks:   make(chan Task[R], buffer),
	}
}

// SetRateLimit spaces task starts across all workers to at most rps per second.
func (p *WorkerPool[R]) SetRateLimit(rps int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	if rps <= 0 {
		return
	}
	p.ticker = time.NewTicker(time.Second / time.Duration(rps))
	p.rate = p.ticker.C
}

func (p *WorkerPool[R]) Submit(t Task[R]) {
	if t.Run == nil {
		return
	}
	p.tasks <- t
}

// Close stops accepting tasks. Run's channel closes once the queued ones finish.
func (p *WorkerPool[R]) Close() {
	close(p.tasks)
}

func (p *WorkerPool[R]) Run(ctx context.Context) <-chan Result[R] {
	out := make(chan Result[R], p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for t := range p.tasks {
				p.waitTurn(ctx)
				out <- Result[R]{Index: t.Index, Value: t.Run(ctx)}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		p.mu.Lock()
		if p.ticker != nil {
			p.ticker.Stop()
			p.ticker = nil
			p.rate = nil
		}
		p.mu.Unlock()
		close(out)
	}()

	return out
}

func (p *WorkerPool[R]) waitTurn(ctx context.Context) {
	p.mu.RLock()
	rate := p.rate
	p.mu.RUnlock()
	if rate == nil {
		return
	}
	select {
	case <-ctx.Done():
	case <-rate:
	}
}
