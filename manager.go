package pso

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/gogpu/pso/driver"
)

// defaultLongCompileThreshold is the synchronous compile duration above
// which a warning is logged when Config leaves the threshold zero.
const defaultLongCompileThreshold = 20 * time.Millisecond

// Config configures a Manager. The zero value of each field selects a
// sensible default where one exists; PassClasses, RenderStates and
// InputLayouts are required for graphics pipelines.
type Config struct {
	// Workers is the number of background compile goroutines.
	// Defaults to runtime.GOMAXPROCS(0).
	Workers int

	// LongCompileThreshold is the synchronous compile duration above
	// which a warning is logged. Defaults to 20ms.
	LongCompileThreshold time.Duration

	// AsyncCompile is the initial state of the process-wide async
	// toggle. It affects all subsequent Add calls and can be flipped at
	// runtime with SetAsyncCompile.
	AsyncCompile bool

	// PassClasses resolves abstract render pass classes to native pass
	// handles.
	PassClasses driver.PassClassResolver

	// RenderStates looks up baked render state by identifier.
	RenderStates RenderStateSource

	// InputLayouts looks up abstract vertex formats by identifier.
	InputLayouts InputLayoutSource
}

// Manager is the top-level pipeline registry: one storage per kind plus
// the background compiler queue.
//
// Add, PrepareRemoval, UnloadAll and Close must be serialized by the
// caller. Get, Valid, Visit and the enumerations are safe concurrently
// once population has quiesced.
type Manager struct {
	env  buildEnv
	comp *compiler

	compute  storage[ComputePipeline, *ComputePipeline]
	graphics storage[GraphicsPipeline, *GraphicsPipeline]
	raytrace storage[RaytracePipeline, *RaytracePipeline]

	asyncAllowed atomic.Bool
}

// NewManager creates a pipeline manager over the given device.
func NewManager(dev driver.Device, cfg *Config) (*Manager, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if cfg == nil {
		cfg = &Config{}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	threshold := cfg.LongCompileThreshold
	if threshold <= 0 {
		threshold = defaultLongCompileThreshold
	}

	m := &Manager{
		env: buildEnv{
			dev:          dev,
			caps:         dev.Caps(),
			passes:       cfg.PassClasses,
			renderStates: cfg.RenderStates,
			inputLayouts: cfg.InputLayouts,
			slowCompile:  threshold,
		},
		comp: newCompiler(workers),
	}
	m.asyncAllowed.Store(cfg.AsyncCompile)
	return m, nil
}

// SetAsyncCompile flips the process-wide async compilation toggle. It
// affects all subsequent Add calls; pipelines already queued keep
// compiling in the background.
func (m *Manager) SetAsyncCompile(enabled bool) { m.asyncAllowed.Store(enabled) }

// AsyncCompileEnabled reports the current state of the async toggle.
func (m *Manager) AsyncCompileEnabled() bool { return m.asyncAllowed.Load() }

// AddCompute creates the compute pipeline for prog. The layout is
// deduplicated against the compute storage. With async compilation
// enabled the returned pipeline may still be pending.
func (m *Manager) AddCompute(prog ProgramID, cache driver.PipelineCache, info *ComputeCreateInfo) (*ComputePipeline, error) {
	if prog.Kind() != KindCompute {
		return nil, ErrWrongKind
	}
	layout, err := m.compute.findOrAddLayout(m.env.dev, &info.Layout)
	if err != nil {
		return nil, err
	}
	p, err := newComputePipeline(&m.env, layout, prog, cache, info, m.comp, m.asyncAllowed.Load())
	if err != nil {
		return nil, err
	}
	m.compute.put(prog.Index(), p)
	return p, nil
}

// AddGraphics creates the graphics pipeline variant for prog.
func (m *Manager) AddGraphics(prog ProgramID, cache driver.PipelineCache, info *GraphicsCreateInfo) (*GraphicsPipeline, error) {
	if prog.Kind() != KindGraphics {
		return nil, ErrWrongKind
	}
	layout, err := m.graphics.findOrAddLayout(m.env.dev, &info.Layout)
	if err != nil {
		return nil, err
	}
	p, err := newGraphicsPipeline(&m.env, layout, prog, cache, info, m.comp, m.asyncAllowed.Load())
	if err != nil {
		return nil, err
	}
	m.graphics.put(prog.Index(), p)
	return p, nil
}

// AddRaytrace creates the raytracing pipeline for prog.
func (m *Manager) AddRaytrace(prog ProgramID, cache driver.PipelineCache, info *RaytraceCreateInfo) (*RaytracePipeline, error) {
	if prog.Kind() != KindRaytrace {
		return nil, ErrWrongKind
	}
	layout, err := m.raytrace.findOrAddLayout(m.env.dev, &info.Layout)
	if err != nil {
		return nil, err
	}
	p, err := newRaytracePipeline(&m.env, layout, prog, cache, info, m.comp, m.asyncAllowed.Load())
	if err != nil {
		return nil, err
	}
	m.raytrace.put(prog.Index(), p)
	return p, nil
}

// GetCompute returns the compute pipeline for prog. The identifier is
// assumed valid; use Valid to probe.
func (m *Manager) GetCompute(prog ProgramID) *ComputePipeline { return m.compute.get(prog.Index()) }

// GetGraphics returns the graphics pipeline for prog.
func (m *Manager) GetGraphics(prog ProgramID) *GraphicsPipeline { return m.graphics.get(prog.Index()) }

// GetRaytrace returns the raytracing pipeline for prog.
func (m *Manager) GetRaytrace(prog ProgramID) *RaytracePipeline { return m.raytrace.get(prog.Index()) }

// Valid reports whether prog names a live pipeline, without asserting.
func (m *Manager) Valid(prog ProgramID) bool {
	switch prog.Kind() {
	case KindCompute:
		return m.compute.valid(prog.Index())
	case KindGraphics:
		return m.graphics.valid(prog.Index())
	case KindRaytrace:
		return m.raytrace.valid(prog.Index())
	default:
		return false
	}
}

// Visit dispatches fn to whichever kind storage owns the identifier's
// namespace, letting recording code stay agnostic to the kind. Returns
// false when prog does not name a live pipeline.
func (m *Manager) Visit(prog ProgramID, fn func(Pipeline)) bool {
	if !m.Valid(prog) {
		return false
	}
	switch prog.Kind() {
	case KindCompute:
		fn(m.compute.get(prog.Index()))
	case KindGraphics:
		fn(m.graphics.get(prog.Index()))
	case KindRaytrace:
		fn(m.raytrace.get(prog.Index()))
	}
	return true
}

// PrepareRemoval detaches prog's pipeline from its slot and returns
// ownership to the caller, who destroys it once in-flight command
// buffers retire (via shutdown through Close of the returned value's
// owner, or by letting UnloadAll handle survivors). Returns nil when
// the slot is already empty.
func (m *Manager) PrepareRemoval(prog ProgramID) Pipeline {
	switch prog.Kind() {
	case KindCompute:
		if p := m.compute.takeOut(prog.Index()); p != nil {
			return p
		}
	case KindGraphics:
		if p := m.graphics.takeOut(prog.Index()); p != nil {
			return p
		}
	case KindRaytrace:
		if p := m.raytrace.takeOut(prog.Index()); p != nil {
			return p
		}
	}
	return nil
}

// DestroyDetached finishes and destroys a pipeline previously returned
// by PrepareRemoval.
func (m *Manager) DestroyDetached(p Pipeline) {
	if p != nil {
		p.shutdown()
	}
}

// EnumerateCompute calls fn for every live compute pipeline.
func (m *Manager) EnumerateCompute(fn func(*ComputePipeline)) { m.compute.enumerate(fn) }

// EnumerateGraphics calls fn for every live graphics pipeline.
func (m *Manager) EnumerateGraphics(fn func(*GraphicsPipeline)) { m.graphics.enumerate(fn) }

// EnumerateRaytrace calls fn for every live raytracing pipeline.
func (m *Manager) EnumerateRaytrace(fn func(*RaytracePipeline)) { m.raytrace.enumerate(fn) }

// EnumerateComputeLayouts calls fn for every compute layout.
func (m *Manager) EnumerateComputeLayouts(fn func(*Layout)) { m.compute.enumerateLayouts(fn) }

// EnumerateGraphicsLayouts calls fn for every graphics layout.
func (m *Manager) EnumerateGraphicsLayouts(fn func(*Layout)) { m.graphics.enumerateLayouts(fn) }

// EnumerateRaytraceLayouts calls fn for every raytracing layout.
func (m *Manager) EnumerateRaytraceLayouts(fn func(*Layout)) { m.raytrace.enumerateLayouts(fn) }

// UnloadAll tears down every pipeline of every kind, forcing pending
// compiles to finish first, then destroys the layouts.
func (m *Manager) UnloadAll() {
	m.compute.unload(m.env.dev)
	m.graphics.unload(m.env.dev)
	m.raytrace.unload(m.env.dev)
}

// Close drains the background compiler, joins its workers, then unloads
// everything. The manager must not be used afterwards.
func (m *Manager) Close() {
	m.comp.close()
	m.UnloadAll()
}
