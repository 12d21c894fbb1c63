package driver

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// StageFlags is a bitmask of shader stages. It covers the rasterization
// stages that have no gputypes equivalent (geometry, tessellation) and
// the raytracing stage set.
type StageFlags uint32

const (
	StageVertex StageFlags = 1 << iota
	StageFragment
	StageGeometry
	StageTessControl
	StageTessEval
	StageCompute
	StageRaygen
	StageAnyHit
	StageClosestHit
	StageMiss
	StageIntersection
	StageCallable
)

// ShaderStageInfo names one shader stage of a pipeline.
type ShaderStageInfo struct {
	Stage      StageFlags
	Module     hal.ShaderModule
	EntryPoint string
}

// PipelineLayoutCreateInfo is the binding signature handed to the
// driver when a new pipeline layout object is needed. Groups are
// ordered descriptor sets.
type PipelineLayoutCreateInfo struct {
	Label             string
	Groups            [][]gputypes.BindGroupLayoutEntry
	PushConstantBytes uint32
	Stages            StageFlags
}

// PipelineCreateFlags alter how the driver compiles a pipeline.
type PipelineCreateFlags uint32

const (
	// PipelineCreateAllowDerivatives permits later pipelines to use
	// this one as a derivative base.
	PipelineCreateAllowDerivatives PipelineCreateFlags = 1 << iota

	// PipelineCreateDerivative marks the pipeline as a derivative of
	// BasePipeline.
	PipelineCreateDerivative
)

// DynamicState identifies one pipeline state axis supplied at record
// time instead of bake time.
type DynamicState uint8

const (
	DynamicStateViewport DynamicState = iota
	DynamicStateScissor
	DynamicStateDepthBias
	DynamicStateDepthBounds
	DynamicStateStencilCompareMask
	DynamicStateStencilWriteMask
	DynamicStateStencilReference
	DynamicStateBlendConstants
)

// graphicsDynamicStates is the fixed list declared by every graphics
// pipeline. Which entries are meaningful per variant is tracked
// separately by the pipeline's dynamic state mask.
var graphicsDynamicStates = [...]DynamicState{
	DynamicStateViewport,
	DynamicStateScissor,
	DynamicStateDepthBias,
	DynamicStateDepthBounds,
	DynamicStateStencilCompareMask,
	DynamicStateStencilWriteMask,
	DynamicStateStencilReference,
	DynamicStateBlendConstants,
}

// GraphicsDynamicStates returns the fixed dynamic state list shared by
// all graphics pipelines.
func GraphicsDynamicStates() []DynamicState {
	return graphicsDynamicStates[:]
}

// RasterState is the rasterization slice of a graphics pipeline.
type RasterState struct {
	PolygonLine      bool
	CullMode         gputypes.CullMode
	FrontFace        gputypes.FrontFace
	DepthClampEnable bool
	// DepthBiasEnable is set even though bias values are dynamic; the
	// pass without a depth attachment forces it off.
	DepthBiasEnable    bool
	ConservativeRaster bool
}

// DepthStencilState is the depth/stencil slice of a graphics pipeline.
// Stencil masks and references are dynamic and therefore absent.
type DepthStencilState struct {
	DepthTestEnable       bool
	DepthWriteEnable      bool
	DepthCompare          gputypes.CompareFunction
	DepthBoundsTestEnable bool
	StencilTestEnable     bool
	StencilFront          hal.StencilFaceState
	StencilBack           hal.StencilFaceState
}

// ColorBlendAttachment is the blend state of one color target slot.
// A zero WriteMask keeps the slot allocated but masked off.
type ColorBlendAttachment struct {
	BlendEnable    bool
	SrcColorFactor gputypes.BlendFactor
	DstColorFactor gputypes.BlendFactor
	ColorOp        gputypes.BlendOperation
	SrcAlphaFactor gputypes.BlendFactor
	DstAlphaFactor gputypes.BlendFactor
	AlphaOp        gputypes.BlendOperation
	WriteMask      gputypes.ColorWriteMask
}

// ComputePipelineCreateInfo is everything the driver needs to build one
// compute pipeline object.
type ComputePipelineCreateInfo struct {
	Label  string
	Stage  ShaderStageInfo
	Layout hal.PipelineLayout
}

// GraphicsPipelineCreateInfo is everything the driver needs to build
// one graphics pipeline object. Populated by the manager's state
// translation; the driver maps it 1:1 onto the native create call.
type GraphicsPipelineCreateInfo struct {
	Label string
	Flags PipelineCreateFlags

	Stages []ShaderStageInfo
	Layout hal.PipelineLayout

	VertexBuffers []gputypes.VertexBufferLayout
	Topology      gputypes.PrimitiveTopology

	// PatchControlPoints is nonzero only when tessellation stages are
	// present.
	PatchControlPoints uint32

	Raster       RasterState
	Multisample  gputypes.MultisampleState
	DepthStencil DepthStencilState
	Blend        []ColorBlendAttachment

	DynamicStates []DynamicState

	RenderPass RenderPassHandle
	Subpass    uint32

	// BasePipeline is the derivative base handle; only meaningful with
	// PipelineCreateDerivative set.
	BasePipeline Pipeline
}

// RaytraceGroupType classifies a raytracing shader group.
type RaytraceGroupType uint8

const (
	RaytraceGroupGeneral RaytraceGroupType = iota
	RaytraceGroupTriangles
	RaytraceGroupProcedural
)

// ShaderUnused marks an absent stage index in a raytracing shader group.
const ShaderUnused = ^uint32(0)

// RaytraceShaderGroup ties stage indices into one shader group.
type RaytraceShaderGroup struct {
	Type         RaytraceGroupType
	General      uint32
	ClosestHit   uint32
	AnyHit       uint32
	Intersection uint32
}

// RaytracePipelineCreateInfo is everything the driver needs to build
// one raytracing pipeline object.
type RaytracePipelineCreateInfo struct {
	Label             string
	Stages            []ShaderStageInfo
	Groups            []RaytraceShaderGroup
	MaxRecursionDepth uint32
	Layout            hal.PipelineLayout
}
