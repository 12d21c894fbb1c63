package pso

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pso/driver"
)

// GraphicsVariant selects the render-target configuration and baked
// state of one graphics pipeline variant.
type GraphicsVariant struct {
	// NativePass, when non-nil, supplies sample count, depth presence
	// and the color-target mask directly from its subpass metadata.
	// Otherwise PassClass is resolved through the pass class registry.
	NativePass driver.RenderPass
	Subpass    uint32
	PassClass  driver.RenderPassClass

	RenderState StaticStateID
	InputLayout InputLayoutID
	Strides     [MaxVertexStreams]uint8

	Topology    gputypes.PrimitiveTopology
	PolygonLine bool
}

// GraphicsCreateInfo is the caller-facing description of one graphics
// pipeline variant.
type GraphicsCreateInfo struct {
	Name string

	// Layout is the binding signature; deduplicated by the storage.
	Layout LayoutDescription

	// Stages carries pre-built shader modules. Graphics modules are
	// owned by the shader system and survive pipeline creation.
	Stages []driver.ShaderStageInfo

	Variant GraphicsVariant

	// Parent is a best-effort derivative base. Consulted once when the
	// compile starts; a still-pending parent is silently skipped.
	Parent *GraphicsPipeline

	// VariantIndex/VariantTotal identify the variant in diagnostics.
	VariantIndex uint32
	VariantTotal uint32
}

// DynamicStateMask records which of the always-declared dynamic states
// are meaningful for one pipeline variant.
type DynamicStateMask uint8

const (
	DynamicMaskDepthBias DynamicStateMask = 1 << iota
	DynamicMaskDepthBounds
	DynamicMaskStencil
	DynamicMaskBlendConstants
)

// Has reports whether every state in m is applicable.
func (d DynamicStateMask) Has(m DynamicStateMask) bool { return d&m == m }

// newDynamicStateMask derives the applicability mask from the static
// state and the resolved depth presence. A pass without depth can never
// use depth bias, depth bounds, or stencil dynamic state.
func newDynamicStateMask(st *StaticState, hasDepth bool) DynamicStateMask {
	var mask DynamicStateMask
	if hasDepth {
		mask |= DynamicMaskDepthBias
		if st.DepthBoundsEnable {
			mask |= DynamicMaskDepthBounds
		}
		if st.StencilTestEnable {
			mask |= DynamicMaskStencil
		}
	}

	blendSlots := uint32(1)
	if st.IndependentBlendEnabled {
		blendSlots = MaxIndependentBlends
	}
	for i := uint32(0); i < blendSlots; i++ {
		if st.BlendStates[i].usesConstant() {
			mask |= DynamicMaskBlendConstants
			break
		}
	}
	return mask
}

// GraphicsPipeline is a compiled or pending graphics pipeline object.
type GraphicsPipeline struct {
	pipelineBase
	dynMask DynamicStateMask
	scratch *graphicsScratch
}

// newGraphicsPipeline translates the variant description into native
// create info, then either enqueues the compile or runs it inline.
func newGraphicsPipeline(env *buildEnv, layout *Layout, prog ProgramID, cache driver.PipelineCache,
	info *GraphicsCreateInfo, comp *compiler, async bool) (*GraphicsPipeline, error) {

	v := &info.Variant

	// Render pass resolution: native pass metadata wins; the class path
	// resolves a compatible pass and may force read-only depth.
	var (
		passHandle    driver.RenderPassHandle
		hasDepth      bool
		forceNoZWrite bool
		rpMask        uint32
		sampleCount   uint32
	)
	if v.NativePass != nil {
		passHandle = v.NativePass
		sampleCount = v.NativePass.SampleCount(v.Subpass)
		hasDepth = v.NativePass.HasDepth(v.Subpass)
		rpMask = v.NativePass.ColorTargetMask(v.Subpass)
		v.NativePass.AddCompileRef()
	} else {
		sampleCount = uint32(v.PassClass.ColorSamples[0])
		if sampleCount < 1 {
			sampleCount = 1
		}
		resolved, err := env.passes.Resolve(v.PassClass)
		if err != nil {
			return nil, fmt.Errorf("pso: resolve pass class for %q: %w", info.Name, err)
		}
		passHandle = resolved
		hasDepth = v.PassClass.DepthMode != driver.DepthNone
		forceNoZWrite = v.PassClass.DepthMode == driver.DepthReadOnly
		rpMask = v.PassClass.ColorTargetMask
	}

	st := env.renderStates.Static(v.RenderState)
	inputLayout := env.inputLayouts.InputLayout(v.InputLayout)

	ci := driver.GraphicsPipelineCreateInfo{
		Label:  info.Name,
		Flags:  driver.PipelineCreateAllowDerivatives,
		Stages: info.Stages,
		Layout: layout.handle,

		VertexBuffers: inputLayout.VertexBuffers(v.Strides),
		Topology:      v.Topology,

		Raster: driver.RasterState{
			PolygonLine:        v.PolygonLine,
			CullMode:           st.CullMode,
			FrontFace:          gputypes.FrontFaceCW,
			DepthClampEnable:   !st.DepthClipEnable && env.caps.DepthClamp,
			DepthBiasEnable:    true,
			ConservativeRaster: st.ConservativeRasterEnable && env.caps.ConservativeRaster,
		},

		DynamicStates: driver.GraphicsDynamicStates(),

		RenderPass: passHandle,
		Subpass:    v.Subpass,
	}

	if layout.desc.hasTessellation() {
		ci.PatchControlPoints = 4
	}

	samples := sampleCount
	if st.ForcedSampleCount != 0 {
		samples = checkForcedSampleCount(env.caps, st.ForcedSampleCount, rpMask, hasDepth)
	}
	ci.Multisample = gputypes.MultisampleState{
		Count:                  samples,
		Mask:                   ^uint64(0),
		AlphaToCoverageEnabled: st.AlphaToCoverage,
	}
	if st.AlphaToCoverage && samples <= 1 {
		fatalf("pso: %q: alpha to coverage requires multisampling", info.Name)
	}

	ci.DepthStencil = driver.DepthStencilState{
		DepthTestEnable:       st.DepthTestEnable,
		DepthWriteEnable:      st.DepthWriteEnable && !forceNoZWrite,
		DepthCompare:          st.DepthTestFunc,
		DepthBoundsTestEnable: st.DepthBoundsEnable,
		StencilTestEnable:     st.StencilTestEnable,
		StencilFront:          st.stencilFace(),
		StencilBack:           st.stencilFace(),
	}

	ci.Blend = buildBlendAttachments(st, layout.desc.FragmentOutputMask, rpMask, v)

	// Depth attachment absence always wins over the static state.
	if !hasDepth {
		ci.DepthStencil.DepthTestEnable = false
		ci.DepthStencil.DepthWriteEnable = false
		ci.DepthStencil.DepthBoundsTestEnable = false
		ci.DepthStencil.StencilTestEnable = false
		ci.Raster.DepthBiasEnable = false
		ci.Raster.DepthClampEnable = false
	}

	p := &GraphicsPipeline{
		pipelineBase: makePipelineBase(env, layout),
		dynMask:      newDynamicStateMask(st, hasDepth),
	}
	p.scratch = &graphicsScratch{
		owner:        ownership(async),
		cache:        cache,
		info:         ci,
		nativePass:   v.NativePass,
		parent:       info.Parent,
		prog:         prog,
		variant:      info.VariantIndex,
		variantTotal: info.VariantTotal,
		name:         info.Name,
	}

	if async {
		comp.enqueue(p)
	} else {
		p.compile()
	}
	return p, nil
}

// buildBlendAttachments fills one blend slot per color target up to the
// highest bit set in the pass target mask. Later shader outputs need an
// explicit masked-off slot; omitting a slot would misalign attachment
// indices against the pass bindings. Resolve targets are consumed by
// the pass itself on the class path and are skipped.
func buildBlendAttachments(st *StaticState, outputMask uint8, rpMask uint32, v *GraphicsVariant) []driver.ColorBlendAttachment {
	if rpMask == 0 {
		return nil
	}
	var (
		out    []driver.ColorBlendAttachment
		swMask = uint32(outputMask)
	)
	for i := uint32(0); i < driver.MaxColorTargets && rpMask != 0; i, rpMask = i+1, rpMask>>1 {
		if i > 0 && v.PassClass.ColorSamples[i-1] > 1 && v.NativePass == nil {
			continue
		}

		bp := st.blendParams(i)
		att := driver.ColorBlendAttachment{
			BlendEnable:    bp.BlendEnable,
			SrcColorFactor: bp.SrcFactor,
			DstColorFactor: bp.DstFactor,
			ColorOp:        bp.Op,
		}
		if bp.SeparateAlphaEnable {
			att.SrcAlphaFactor = bp.SrcAlphaFactor
			att.DstAlphaFactor = bp.DstAlphaFactor
			att.AlphaOp = bp.AlphaOp
		} else {
			att.SrcAlphaFactor = bp.SrcFactor
			att.DstAlphaFactor = bp.DstFactor
			att.AlphaOp = bp.Op
		}

		// Write only when the shader output and the pass target agree;
		// otherwise undefined values would land in the framebuffer.
		if swMask&rpMask&1 != 0 {
			att.WriteMask = st.writeMask(uint32(len(out)))
		}

		out = append(out, att)
		swMask >>= 1
	}
	return out
}

// checkForcedSampleCount validates a forced multisample count against
// the device and the attachment configuration. Forced multisampling is
// a distinct mode that excludes color and depth attachments.
func checkForcedSampleCount(caps driver.Caps, count, rpMask uint32, hasDepth bool) uint32 {
	if count <= 1 {
		return 1
	}
	if !caps.NoAttachmentSampleCounts.Has(count) {
		fatalf("pso: forced sample count %d is not supported on this device", count)
		return 1
	}
	if hasDepth || rpMask != 0 {
		fatalf("pso: forced multisampling requires no color and depth attachments")
		return 1
	}
	return count
}

// Kind returns KindGraphics.
func (p *GraphicsPipeline) Kind() Kind { return KindGraphics }

// DynamicStateMask reports which declared dynamic states this variant
// actually uses, so callers can apply dynamic state without guessing.
func (p *GraphicsPipeline) DynamicStateMask() DynamicStateMask { return p.dynMask }

// Bind waits for a pending compile and issues the native bind call.
func (p *GraphicsPipeline) Bind(cb driver.CommandBuffer) {
	if !p.compiled.Load() {
		p.wait()
	}
	p.env.dev.BindGraphicsPipeline(cb, p.handle)
}

func (p *GraphicsPipeline) compile() {
	cs := p.scratch

	start := time.Now()
	h, err := p.createPipelineObject()
	elapsed := time.Since(start)

	if err == nil && h == nil {
		err = ErrNilHandle
	}
	if err != nil {
		fatalf("pso: pipeline [%v:%d(%d)] %q failed to compile: %w",
			cs.prog, cs.variant, cs.variantTotal, cs.name, err)
		h = nil
	}

	if cs.nativePass != nil {
		cs.nativePass.ReleaseCompileRef()
	}

	logCompileTime(p.env, elapsed, cs.owner, "kind", "gfx",
		"prog", cs.prog, "variant", cs.variant, "name", cs.name)

	p.scratch = nil
	p.finish(h)
}

// createPipelineObject applies the derivative optimization if the
// parent finished first, then issues the native create call.
func (p *GraphicsPipeline) createPipelineObject() (driver.Pipeline, error) {
	cs := p.scratch
	if cs.parent != nil {
		if base := cs.parent.compiledHandle(); base != nil {
			cs.info.Flags |= driver.PipelineCreateDerivative
			cs.info.BasePipeline = base
		}
	}
	return p.env.dev.CreateGraphicsPipeline(cs.cache, &cs.info)
}
