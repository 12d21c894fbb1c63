package pso

import (
	"sync"
)

// compilable is the unit of work the background queue processes.
type compilable interface {
	compile()
}

// compiler runs pipeline compiles on a fixed set of worker goroutines,
// off the critical recording path. Enqueue never blocks the caller;
// waiting happens point-to-point on the pipeline itself, never on the
// queue as a whole.
type compiler struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []compilable
	closed bool

	wg sync.WaitGroup
}

func newCompiler(workers int) *compiler {
	if workers < 1 {
		workers = 1
	}
	c := &compiler{}
	c.cond = sync.NewCond(&c.mu)
	c.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go c.worker()
	}
	return c
}

// enqueue accepts ownership of a compile request without blocking. A
// request arriving after close compiles inline so nothing is leaked.
func (c *compiler) enqueue(p compilable) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		p.compile()
		return
	}
	c.queue = append(c.queue, p)
	c.mu.Unlock()
	c.cond.Signal()
}

func (c *compiler) worker() {
	defer c.wg.Done()
	c.mu.Lock()
	for {
		for len(c.queue) == 0 && !c.closed {
			c.cond.Wait()
		}
		if len(c.queue) == 0 {
			c.mu.Unlock()
			return
		}
		p := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		p.compile()

		c.mu.Lock()
	}
}

// close stops intake, completes every request already accepted, then
// joins the workers.
func (c *compiler) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.cond.Broadcast()
	c.wg.Wait()
}
