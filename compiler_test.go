package pso

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingJob is a minimal compilable.
type countingJob struct {
	n    *atomic.Int32
	done chan struct{}
}

func (j *countingJob) compile() {
	j.n.Add(1)
	if j.done != nil {
		close(j.done)
	}
}

func TestCompilerRunsEverythingEnqueued(t *testing.T) {
	c := newCompiler(4)
	var n atomic.Int32

	const jobs = 64
	for i := 0; i < jobs; i++ {
		c.enqueue(&countingJob{n: &n})
	}
	c.close()

	if got := n.Load(); got != jobs {
		t.Fatalf("compiled %d jobs, want %d", got, jobs)
	}
}

func TestCompilerCloseDrainsQueue(t *testing.T) {
	// One worker and a slow first job guarantee the rest are still
	// queued when close is called.
	c := newCompiler(1)
	var n atomic.Int32

	started := make(chan struct{})
	c.enqueue(compilableFunc(func() {
		close(started)
		time.Sleep(10 * time.Millisecond)
		n.Add(1)
	}))
	<-started
	for i := 0; i < 8; i++ {
		c.enqueue(&countingJob{n: &n})
	}

	c.close()
	if got := n.Load(); got != 9 {
		t.Fatalf("compiled %d jobs after close, want 9", got)
	}
}

func TestCompilerEnqueueAfterCloseCompilesInline(t *testing.T) {
	c := newCompiler(1)
	c.close()

	var n atomic.Int32
	c.enqueue(&countingJob{n: &n})
	if n.Load() != 1 {
		t.Fatal("job enqueued after close was not compiled inline")
	}
}

func TestCompilerConcurrentEnqueue(t *testing.T) {
	c := newCompiler(4)
	var n atomic.Int32

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 32; i++ {
				c.enqueue(&countingJob{n: &n})
			}
		}()
	}
	wg.Wait()
	c.close()

	if got := n.Load(); got != 8*32 {
		t.Fatalf("compiled %d jobs, want %d", got, 8*32)
	}
}

// compilableFunc adapts a func to the compilable interface.
type compilableFunc func()

func (f compilableFunc) compile() { f() }
