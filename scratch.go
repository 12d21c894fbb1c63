package pso

import (
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pso/driver"
)

// scratchOwnership tags who owns a compile scratch and for how long.
type scratchOwnership uint8

const (
	// scratchInline scratch lives only for the duration of the
	// synchronous construction call.
	scratchInline scratchOwnership = iota

	// scratchDetached scratch is owned by the pipeline until the
	// background compile completes.
	scratchDetached
)

// computeScratch is the staging data for one compute pipeline build.
// Released the instant the native object exists.
type computeScratch struct {
	owner scratchOwnership
	cache driver.PipelineCache

	module hal.ShaderModule
	info   driver.ComputePipelineCreateInfo

	prog ProgramID
	name string
}

// graphicsScratch is the staging data for one graphics pipeline build.
type graphicsScratch struct {
	owner scratchOwnership
	cache driver.PipelineCache

	info driver.GraphicsPipelineCreateInfo

	// nativePass is non-nil when the variant targets a pre-existing
	// native pass; a compile reference is held on it until the build
	// finishes.
	nativePass driver.RenderPass

	// parent is the best-effort derivative base.
	parent *GraphicsPipeline

	prog         ProgramID
	variant      uint32
	variantTotal uint32
	name         string
}

// raytraceScratch is the staging data for one raytracing pipeline build.
type raytraceScratch struct {
	owner scratchOwnership
	cache driver.PipelineCache

	modules []hal.ShaderModule
	info    driver.RaytracePipelineCreateInfo

	prog ProgramID
	name string
}

func ownership(async bool) scratchOwnership {
	if async {
		return scratchDetached
	}
	return scratchInline
}
