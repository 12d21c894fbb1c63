package pso

import (
	"sync/atomic"
	"time"

	"github.com/gogpu/pso/driver"
)

// Pipeline is the capability shared by every pipeline kind. Render
// command recording can work against it without knowing the kind.
type Pipeline interface {
	// Kind returns the pipeline's namespace tag.
	Kind() Kind

	// Layout returns the shared resource layout.
	Layout() *Layout

	// Compiled reports whether the native object exists, without
	// blocking. False means the pipeline is still queued or compiling.
	Compiled() bool

	// Handle returns the native pipeline object, blocking until a
	// pending compile finishes. Nil only if compilation failed and the
	// installed fatal handler chose to continue.
	Handle() driver.Pipeline

	// Bind waits for a pending compile and issues the native bind call.
	Bind(cb driver.CommandBuffer)

	compile()
	shutdown()
}

// buildEnv bundles the collaborators every pipeline build consults.
// Immutable after manager construction, shared by all pipelines.
type buildEnv struct {
	dev          driver.Device
	caps         driver.Caps
	passes       driver.PassClassResolver
	renderStates RenderStateSource
	inputLayouts InputLayoutSource

	// slowCompile is the synchronous compile duration above which a
	// warning is logged.
	slowCompile time.Duration
}

// pipelineBase carries the state machine common to all kinds:
// Constructed (handle nil, done open) -> Compiled (handle set, done
// closed). The done channel is the point-to-point wait primitive; the
// atomic flag is the non-blocking probe.
type pipelineBase struct {
	env      *buildEnv
	layout   *Layout
	handle   driver.Pipeline
	compiled atomic.Bool
	done     chan struct{}
}

func makePipelineBase(env *buildEnv, layout *Layout) pipelineBase {
	return pipelineBase{env: env, layout: layout, done: make(chan struct{})}
}

// Layout returns the shared resource layout.
func (p *pipelineBase) Layout() *Layout { return p.layout }

// Compiled reports whether the native object exists, without blocking.
func (p *pipelineBase) Compiled() bool { return p.compiled.Load() }

// finish publishes the compile result and releases all waiters. Called
// exactly once, by whichever goroutine ran the compile.
func (p *pipelineBase) finish(h driver.Pipeline) {
	p.handle = h
	p.compiled.Store(true)
	close(p.done)
}

// wait blocks until the compile has published its result.
func (p *pipelineBase) wait() {
	<-p.done
}

// Handle returns the native pipeline object, blocking while pending.
func (p *pipelineBase) Handle() driver.Pipeline {
	if !p.compiled.Load() {
		p.wait()
	}
	return p.handle
}

// compiledHandle returns the handle only when the compile has already
// finished. Used for best-effort derivative bases.
func (p *pipelineBase) compiledHandle() driver.Pipeline {
	if !p.compiled.Load() {
		return nil
	}
	return p.handle
}

// shutdown forces completion of a pending compile, then destroys the
// native object.
func (p *pipelineBase) shutdown() {
	if !p.compiled.Load() {
		p.wait()
	}
	if p.handle != nil {
		p.env.dev.DestroyPipeline(p.handle)
		p.handle = nil
	}
}
