package pso

import (
	"fmt"
	"time"

	"github.com/gogpu/pso/driver"
)

// ComputeCreateInfo is the caller-facing description of one compute
// pipeline.
type ComputeCreateInfo struct {
	// Name is the debug name attached to diagnostics.
	Name string

	// Layout is the binding signature; deduplicated by the storage.
	Layout LayoutDescription

	// Shader is the compute stage code.
	Shader ShaderBlob
}

// ComputePipeline is a compiled or pending compute pipeline object.
type ComputePipeline struct {
	pipelineBase
	scratch *computeScratch
}

// newComputePipeline populates scratch and either enqueues the compile
// or runs it inline before returning.
func newComputePipeline(env *buildEnv, layout *Layout, prog ProgramID, cache driver.PipelineCache,
	info *ComputeCreateInfo, comp *compiler, async bool) (*ComputePipeline, error) {

	desc, err := info.Shader.descriptor()
	if err != nil {
		return nil, err
	}
	module, err := env.dev.CreateShaderModule(desc)
	if err != nil {
		return nil, fmt.Errorf("pso: create compute module %q: %w", info.Name, err)
	}

	p := &ComputePipeline{pipelineBase: makePipelineBase(env, layout)}
	p.scratch = &computeScratch{
		owner:  ownership(async),
		cache:  cache,
		module: module,
		info: driver.ComputePipelineCreateInfo{
			Label: info.Name,
			Stage: driver.ShaderStageInfo{
				Stage:      driver.StageCompute,
				Module:     module,
				EntryPoint: "main",
			},
			Layout: layout.handle,
		},
		prog: prog,
		name: info.Name,
	}

	if async {
		comp.enqueue(p)
	} else {
		p.compile()
	}
	return p, nil
}

// Kind returns KindCompute.
func (p *ComputePipeline) Kind() Kind { return KindCompute }

// Bind waits for a pending compile and issues the native bind call.
// This is the single point where asynchronous compilation becomes
// visible to command recording.
func (p *ComputePipeline) Bind(cb driver.CommandBuffer) {
	if !p.compiled.Load() {
		p.wait()
	}
	p.env.dev.BindComputePipeline(cb, p.handle)
}

func (p *ComputePipeline) compile() {
	cs := p.scratch

	start := time.Now()
	h, err := p.env.dev.CreateComputePipeline(cs.cache, &cs.info)
	elapsed := time.Since(start)

	if err == nil && h == nil {
		err = ErrNilHandle
	}
	if err != nil {
		fatalf("pso: pipeline [%v] %q failed to compile: %w", cs.prog, cs.name, err)
		h = nil
	}

	// The module is not needed once the pipeline object exists.
	p.env.dev.DestroyShaderModule(cs.module)

	logCompileTime(p.env, elapsed, cs.owner, "kind", "compute",
		"prog", cs.prog, "name", cs.name)

	p.scratch = nil
	p.finish(h)
}

// logCompileTime emits compile timing: a warning when an inline compile
// stalled the calling thread past the threshold, debug otherwise.
func logCompileTime(env *buildEnv, elapsed time.Duration, owner scratchOwnership, args ...any) {
	args = append(args, "elapsed", elapsed)
	if owner == scratchInline && elapsed > env.slowCompile {
		Logger().Warn("pso: long synchronous pipeline compile", args...)
		return
	}
	Logger().Debug("pso: pipeline compiled", args...)
}
