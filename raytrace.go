package pso

import (
	"fmt"
	"time"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pso/driver"
)

// RaytraceCreateInfo is the caller-facing description of one raytracing
// pipeline.
type RaytraceCreateInfo struct {
	Name string

	// Layout is the binding signature; deduplicated by the storage.
	Layout LayoutDescription

	// Shaders are the stage blobs; Groups reference them by index.
	Shaders []ShaderBlob
	Stages  []driver.StageFlags
	Groups  []driver.RaytraceShaderGroup

	MaxRecursionDepth uint32
}

// RaytracePipeline is a compiled or pending raytracing pipeline object.
type RaytracePipeline struct {
	pipelineBase
	scratch *raytraceScratch
}

// newRaytracePipeline builds one module per stage blob, then either
// enqueues the compile or runs it inline.
func newRaytracePipeline(env *buildEnv, layout *Layout, prog ProgramID, cache driver.PipelineCache,
	info *RaytraceCreateInfo, comp *compiler, async bool) (*RaytracePipeline, error) {

	if len(info.Shaders) != len(info.Stages) {
		return nil, fmt.Errorf("pso: raytrace %q: %d shaders for %d stages", info.Name, len(info.Shaders), len(info.Stages))
	}

	modules := make([]hal.ShaderModule, 0, len(info.Shaders))
	stages := make([]driver.ShaderStageInfo, 0, len(info.Shaders))
	for i := range info.Shaders {
		desc, err := info.Shaders[i].descriptor()
		if err != nil {
			destroyModules(env.dev, modules)
			return nil, err
		}
		m, err := env.dev.CreateShaderModule(desc)
		if err != nil {
			destroyModules(env.dev, modules)
			return nil, fmt.Errorf("pso: create raytrace module %q: %w", info.Shaders[i].Label, err)
		}
		modules = append(modules, m)
		stages = append(stages, driver.ShaderStageInfo{
			Stage:      info.Stages[i],
			Module:     m,
			EntryPoint: "main",
		})
	}

	p := &RaytracePipeline{pipelineBase: makePipelineBase(env, layout)}
	p.scratch = &raytraceScratch{
		owner:   ownership(async),
		cache:   cache,
		modules: modules,
		info: driver.RaytracePipelineCreateInfo{
			Label:             info.Name,
			Stages:            stages,
			Groups:            info.Groups,
			MaxRecursionDepth: info.MaxRecursionDepth,
			Layout:            layout.handle,
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

func destroyModules(dev driver.Device, modules []hal.ShaderModule) {
	for _, m := range modules {
		dev.DestroyShaderModule(m)
	}
}

// Kind returns KindRaytrace.
func (p *RaytracePipeline) Kind() Kind { return KindRaytrace }

// Bind waits for a pending compile and issues the native bind call.
func (p *RaytracePipeline) Bind(cb driver.CommandBuffer) {
	if !p.compiled.Load() {
		p.wait()
	}
	p.env.dev.BindRaytracePipeline(cb, p.handle)
}

// GroupHandles copies the shader group handles of the compiled pipeline
// into a fresh slice, blocking while the compile is pending. The driver
// returns one fixed-size handle per group, so the copy must split
// evenly across the requested count.
func (p *RaytracePipeline) GroupHandles(firstGroup, groupCount uint32) ([]byte, error) {
	if groupCount == 0 {
		return nil, nil
	}
	h := p.Handle()
	if h == nil {
		return nil, ErrNotCompiled
	}
	data, err := p.env.dev.RaytraceGroupHandles(h, firstGroup, groupCount)
	if err != nil {
		return nil, err
	}
	if uint32(len(data))%groupCount != 0 {
		return nil, fmt.Errorf("pso: %d group handle bytes do not split across %d groups", len(data), groupCount)
	}
	return data, nil
}

func (p *RaytracePipeline) compile() {
	cs := p.scratch

	start := time.Now()
	h, err := p.env.dev.CreateRaytracePipeline(cs.cache, &cs.info)
	elapsed := time.Since(start)

	if err == nil && h == nil {
		err = ErrNilHandle
	}
	if err != nil {
		fatalf("pso: pipeline [%v] %q failed to compile: %w", cs.prog, cs.name, err)
		h = nil
	}

	destroyModules(p.env.dev, cs.modules)

	logCompileTime(p.env, elapsed, cs.owner, "kind", "rt",
		"prog", cs.prog, "name", cs.name)

	p.scratch = nil
	p.finish(h)
}
