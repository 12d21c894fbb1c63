package pso

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pso/driver"
)

// fakePipeline is a test double for driver.Pipeline.
type fakePipeline struct {
	id        uintptr
	destroyed bool
}

func (p *fakePipeline) Destroy()              { p.destroyed = true }
func (p *fakePipeline) NativeHandle() uintptr { return p.id }

// fakeCache is a test double for driver.PipelineCache.
type fakeCache struct{}

func (*fakeCache) NativeHandle() uintptr { return 0xCACE }

// fakeCmdBuffer is a test double for driver.CommandBuffer.
type fakeCmdBuffer struct{}

func (*fakeCmdBuffer) NativeHandle() uintptr { return 0xCB }

// fakeDevice is a test double for driver.Device. It records create and
// destroy calls and can be told to fail or stall compiles.
type fakeDevice struct {
	mu sync.Mutex

	caps driver.Caps

	modulesCreated   int
	modulesDestroyed int
	layoutsCreated   int

	pipelinesCreated   int
	pipelinesDestroyed int

	lastComputeInfo  *driver.ComputePipelineCreateInfo
	lastGraphicsInfo *driver.GraphicsPipelineCreateInfo
	lastRaytraceInfo *driver.RaytracePipelineCreateInfo

	lastBound driver.Pipeline

	// nilHandle makes create calls return success with a nil handle.
	nilHandle bool

	// createErr makes create calls fail.
	createErr error

	// moduleErr makes CreateShaderModule fail.
	moduleErr error

	// compileGate, when non-nil, is received from at the start of every
	// pipeline create call so tests can hold compiles pending.
	compileGate chan struct{}

	groupHandles []byte
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		caps: driver.Caps{
			NoAttachmentSampleCounts: driver.SampleCountFlags(1 | 2 | 4 | 8),
			ConservativeRaster:       true,
			DepthBoundsTest:          true,
			DepthClamp:               true,
		},
	}
}

func (d *fakeDevice) CreateShaderModule(_ *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.moduleErr != nil {
		return nil, d.moduleErr
	}
	d.modulesCreated++
	return nil, nil
}

func (d *fakeDevice) DestroyShaderModule(_ hal.ShaderModule) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modulesDestroyed++
}

func (d *fakeDevice) CreatePipelineLayout(_ *driver.PipelineLayoutCreateInfo) (hal.PipelineLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.layoutsCreated++
	return nil, nil
}

func (d *fakeDevice) DestroyPipelineLayout(_ hal.PipelineLayout) {}

func (d *fakeDevice) createPipeline() (driver.Pipeline, error) {
	if d.compileGate != nil {
		gate := d.compileGate
		d.mu.Unlock()
		<-gate
		d.mu.Lock()
	}
	if d.createErr != nil {
		return nil, d.createErr
	}
	if d.nilHandle {
		return nil, nil
	}
	d.pipelinesCreated++
	return &fakePipeline{id: uintptr(d.pipelinesCreated)}, nil
}

func (d *fakeDevice) CreateComputePipeline(_ driver.PipelineCache, info *driver.ComputePipelineCreateInfo) (driver.Pipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *info
	d.lastComputeInfo = &cp
	return d.createPipeline()
}

func (d *fakeDevice) CreateGraphicsPipeline(_ driver.PipelineCache, info *driver.GraphicsPipelineCreateInfo) (driver.Pipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *info
	d.lastGraphicsInfo = &cp
	return d.createPipeline()
}

func (d *fakeDevice) CreateRaytracePipeline(_ driver.PipelineCache, info *driver.RaytracePipelineCreateInfo) (driver.Pipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *info
	d.lastRaytraceInfo = &cp
	return d.createPipeline()
}

func (d *fakeDevice) DestroyPipeline(_ driver.Pipeline) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pipelinesDestroyed++
}

func (d *fakeDevice) RaytraceGroupHandles(_ driver.Pipeline, _, _ uint32) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.groupHandles == nil {
		return nil, errors.New("no group handles")
	}
	return d.groupHandles, nil
}

func (d *fakeDevice) BindComputePipeline(_ driver.CommandBuffer, p driver.Pipeline) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastBound = p
}

func (d *fakeDevice) BindGraphicsPipeline(_ driver.CommandBuffer, p driver.Pipeline) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastBound = p
}

func (d *fakeDevice) BindRaytracePipeline(_ driver.CommandBuffer, p driver.Pipeline) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastBound = p
}

func (d *fakeDevice) Caps() driver.Caps { return d.caps }

func (d *fakeDevice) bound() driver.Pipeline {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastBound
}

func (d *fakeDevice) graphicsInfo() *driver.GraphicsPipelineCreateInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastGraphicsInfo
}

// fakePass is a test double for driver.RenderPass.
type fakePass struct {
	samples  uint32
	depth    bool
	mask     uint32
	refs     int
	peakRefs int
}

func (p *fakePass) NativeHandle() uintptr           { return 0x9A55 }
func (p *fakePass) SampleCount(_ uint32) uint32     { return p.samples }
func (p *fakePass) HasDepth(_ uint32) bool          { return p.depth }
func (p *fakePass) ColorTargetMask(_ uint32) uint32 { return p.mask }

func (p *fakePass) AddCompileRef() {
	p.refs++
	if p.refs > p.peakRefs {
		p.peakRefs = p.refs
	}
}

func (p *fakePass) ReleaseCompileRef() { p.refs-- }

// fakePassHandle is a resolved pass class handle.
type fakePassHandle struct{}

func (*fakePassHandle) NativeHandle() uintptr { return 0xC1A55 }

// fakePassResolver is a test double for driver.PassClassResolver.
type fakePassResolver struct {
	resolves int
	err      error
}

func (r *fakePassResolver) Resolve(_ driver.RenderPassClass) (driver.RenderPassHandle, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.resolves++
	return &fakePassHandle{}, nil
}

// fakeRenderStates is a table-backed RenderStateSource.
type fakeRenderStates map[StaticStateID]*StaticState

func (s fakeRenderStates) Static(id StaticStateID) *StaticState { return s[id] }

// fakeInputLayouts is a table-backed InputLayoutSource.
type fakeInputLayouts map[InputLayoutID]InputLayout

func (s fakeInputLayouts) InputLayout(id InputLayoutID) InputLayout { return s[id] }

// collectFatals replaces the fatal handler for the duration of the test.
// The returned func snapshots the errors recorded so far.
func collectFatals(t *testing.T) func() []error {
	var (
		mu   sync.Mutex
		errs []error
	)
	SetFatalHandler(func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	})
	t.Cleanup(func() { SetFatalHandler(nil) })
	return func() []error {
		mu.Lock()
		defer mu.Unlock()
		return append([]error(nil), errs...)
	}
}
