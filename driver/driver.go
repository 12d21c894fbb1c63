package driver

import (
	"github.com/gogpu/wgpu/hal"
)

// Pipeline is an opaque native pipeline object handle.
//
// A nil Pipeline means "not built". Destroy releases the driver object;
// NativeHandle exposes the raw handle for debug tooling.
type Pipeline interface {
	hal.Resource
	hal.NativeHandle
}

// PipelineCache is a driver-level pipeline cache handle. The driver is
// assumed to synchronize access internally, so a single cache may be
// shared across concurrent pipeline compiles.
type PipelineCache interface {
	hal.NativeHandle
}

// CommandBuffer is an opaque command buffer handle used only as a bind
// target. Recording itself happens outside this module.
type CommandBuffer interface {
	hal.NativeHandle
}

// Device is the pipeline manager's view of the native device.
//
// Create calls may run on any goroutine; the implementation must either
// be internally synchronized or wrap an API that is (Vulkan device-level
// creation calls are).
type Device interface {
	// CreateShaderModule builds a native shader module from pre-built
	// intermediate code.
	CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error)
	DestroyShaderModule(module hal.ShaderModule)

	// CreatePipelineLayout builds the native resource-binding layout
	// object for the given binding signature.
	CreatePipelineLayout(info *PipelineLayoutCreateInfo) (hal.PipelineLayout, error)
	DestroyPipelineLayout(layout hal.PipelineLayout)

	CreateComputePipeline(cache PipelineCache, info *ComputePipelineCreateInfo) (Pipeline, error)
	CreateGraphicsPipeline(cache PipelineCache, info *GraphicsPipelineCreateInfo) (Pipeline, error)
	CreateRaytracePipeline(cache PipelineCache, info *RaytracePipelineCreateInfo) (Pipeline, error)
	DestroyPipeline(pipeline Pipeline)

	// RaytraceGroupHandles copies the shader group handles of a compiled
	// raytracing pipeline into a fresh byte slice.
	RaytraceGroupHandles(pipeline Pipeline, firstGroup, groupCount uint32) ([]byte, error)

	BindComputePipeline(cb CommandBuffer, pipeline Pipeline)
	BindGraphicsPipeline(cb CommandBuffer, pipeline Pipeline)
	BindRaytracePipeline(cb CommandBuffer, pipeline Pipeline)

	Caps() Caps
}
