// Package routines provides running functions in a limited number of
// goroutines.
package routines

import "sync"

// Pool runs queued functions in a bounded number of goroutines.
type Pool struct {
	ch chan func()
	wg sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool starts size goroutines that execute queued functions.
func NewPool(size uint) *Pool {
	p := Pool{
		ch: make(chan func()),
	}

	p.wg.Add(int(size))
	for i := uint(0); i < size; i++ {
		go func() {
			defer p.wg.Done()

			for fn := range p.ch {
				fn()
			}
		}()
	}

	return &p
}

// Queue schedules fn for execution.
// It blocks until a goroutine of the pool is free to run it.
// Calling Queue() after Wait() panics.
func (p *Pool) Queue(fn func()) {
	// the send must happen under the lock, otherwise a concurrent Wait()
	// could close the channel between the closed check and the send
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		panic("Queue() was called after Wait()")
	}

	p.ch <- fn
}

// Wait stops the pool and blocks until all queued functions terminated.
// It can be called multiple times.
func (p *Pool) Wait() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	p.mu.Unlock()

	p.wg.Wait()
}
