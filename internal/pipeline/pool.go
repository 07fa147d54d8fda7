// internal/pipeline/pool.go
package pipeline

import (
	"context"
	"sync"
)

// Pool is a fixed set of worker goroutines shared by every file of a batch
// run. Create it once, inject it into each Annotator, Close it at the end.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
	size  int
	once  sync.Once
}

// NewPool starts size workers (at least 1).
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{tasks: make(chan func(), size*2), size: size}
	p.wg.Add(size)
	for w := 0; w < size; w++ {
		go func() {
			defer p.wg.Done()
			for fn := range p.tasks {
				fn()
			}
		}()
	}
	return p
}

// Size is the worker count. A nil Pool has size 1 (sequential).
func (p *Pool) Size() int {
	if p == nil {
		return 1
	}
	return p.size
}

// Submit queues fn, blocking while the queue is full. It must not be called
// after Close.
func (p *Pool) Submit(ctx context.Context, fn func()) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case p.tasks <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work and waits for queued tasks to finish.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		close(p.tasks)
		p.wg.Wait()
	})
}
