package parallel

import (
	"errors"
	"runtime"
	"sync"
)

type (
	Task       func() error
	WorkerFunc func(Task)
	WaitFunc   func() error
)

// Pool runs tasks on a fixed number of goroutines. With a single worker
// tasks run inline on the caller's goroutine, in submission order.
type Pool struct {
	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error

	Do   WorkerFunc
	Wait WaitFunc
}

func (p *Pool) record(err error) {
	if err == nil {
		return
	}
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}

func (p *Pool) joined() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}

// Start creates a pool. numWorkers < 1 means one worker per GOMAXPROCS.
// Wait must be called exactly once, after the last Do.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{}
	pool.Do = func(f Task) {
		pool.record(f())
	}
	pool.Wait = pool.joined

	if numWorkers > 1 {
		workChan := make(chan Task, numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					pool.record(f())
				}
			})
		}

		pool.Do = func(f Task) {
			workChan <- f
		}

		closeWork := sync.OnceFunc(func() { close(workChan) })
		pool.Wait = func() error {
			closeWork()
			pool.wg.Wait()
			return pool.joined()
		}
	}

	return pool
}
