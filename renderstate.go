package pso

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// MaxVertexStreams is the maximum number of vertex input streams an
// input layout may reference.
const MaxVertexStreams = 4

// MaxIndependentBlends is the number of color targets that may carry
// distinct blend parameters when independent blending is enabled.
// Targets beyond this count reuse slot 0.
const MaxIndependentBlends = 4

// StaticStateID indexes the static render state table owned by the
// render state system.
type StaticStateID uint32

// BlendParams is the blend configuration of one independent blend slot.
type BlendParams struct {
	BlendEnable         bool
	SeparateAlphaEnable bool

	SrcFactor gputypes.BlendFactor
	DstFactor gputypes.BlendFactor
	Op        gputypes.BlendOperation

	// Alpha factors are consulted only when SeparateAlphaEnable is set;
	// otherwise the color factors apply to alpha as well.
	SrcAlphaFactor gputypes.BlendFactor
	DstAlphaFactor gputypes.BlendFactor
	AlphaOp        gputypes.BlendOperation
}

// usesConstant reports whether the slot's active blend factors read the
// dynamic blend-constant color.
func (b *BlendParams) usesConstant() bool {
	if !b.BlendEnable {
		return false
	}
	isConst := func(f gputypes.BlendFactor) bool {
		return f == gputypes.BlendFactorConstant || f == gputypes.BlendFactorOneMinusConstant
	}
	if isConst(b.SrcFactor) || isConst(b.DstFactor) {
		return true
	}
	if b.SeparateAlphaEnable && (isConst(b.SrcAlphaFactor) || isConst(b.DstAlphaFactor)) {
		return true
	}
	return false
}

// StaticState is the baked (non-dynamic) render state slice referenced
// by graphics pipeline variants. The table entries are immutable once
// registered; pipelines read them during state translation only.
type StaticState struct {
	CullMode gputypes.CullMode

	// DepthClipEnable off means fragments outside the depth range are
	// clamped instead of clipped.
	DepthClipEnable bool

	DepthTestEnable   bool
	DepthWriteEnable  bool
	DepthTestFunc     gputypes.CompareFunction
	DepthBoundsEnable bool

	StencilTestEnable      bool
	StencilTestFunc        gputypes.CompareFunction
	StencilTestOpPass      hal.StencilOperation
	StencilTestOpDepthFail hal.StencilOperation
	StencilTestOpFail      hal.StencilOperation

	// IndependentBlendEnabled selects per-target blend parameters for
	// the first MaxIndependentBlends targets; otherwise slot 0 applies
	// to every target.
	IndependentBlendEnabled bool
	BlendStates             [MaxIndependentBlends]BlendParams

	// ColorMask packs one RGBA nibble per color attachment slot.
	ColorMask uint32

	// ForcedSampleCount overrides the render-target sample count when
	// nonzero. Valid only without color and depth attachments.
	ForcedSampleCount uint32

	AlphaToCoverage          bool
	ConservativeRasterEnable bool
}

// blendParams returns the blend slot for color target i, honoring the
// independent-blend switch.
func (s *StaticState) blendParams(i uint32) *BlendParams {
	if s.IndependentBlendEnabled && i < MaxIndependentBlends {
		return &s.BlendStates[i]
	}
	return &s.BlendStates[0]
}

// writeMask extracts the RGBA write mask nibble for an attachment slot.
func (s *StaticState) writeMask(attachment uint32) gputypes.ColorWriteMask {
	return gputypes.ColorWriteMask(s.ColorMask >> (attachment * 4) & 0xF)
}

// stencilFace builds the hal face state shared by front and back faces.
// Compare and write masks and the reference value are dynamic.
func (s *StaticState) stencilFace() hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     s.StencilTestFunc,
		FailOp:      s.StencilTestOpFail,
		DepthFailOp: s.StencilTestOpDepthFail,
		PassOp:      s.StencilTestOpPass,
	}
}

// RenderStateSource resolves static state identifiers against the
// render state system's table. Implementations must be safe for
// concurrent lookups; returned pointers stay valid and immutable for
// the manager's lifetime.
type RenderStateSource interface {
	Static(id StaticStateID) *StaticState
}

// InputLayoutID indexes the shader system's input layout table.
type InputLayoutID uint32

// InputAttrib is one vertex attribute of an abstract input layout.
// Unused attributes keep their slot so that attribute locations stay
// stable across variants.
type InputAttrib struct {
	Used     bool
	Location uint32
	Stream   uint32
	Offset   uint32
	Format   gputypes.VertexFormat
}

// InputStreams flags which vertex streams an input layout reads and
// their stepping mode.
type InputStreams struct {
	Used     [MaxVertexStreams]bool
	StepMode [MaxVertexStreams]gputypes.VertexStepMode
}

// InputLayout is the abstract vertex format resolved from an
// InputLayoutID. Only used attributes and used streams reach the
// native create info.
type InputLayout struct {
	Attribs []InputAttrib
	Streams InputStreams
}

// VertexBuffers performs the sparse-to-dense translation: it emits one
// gputypes.VertexBufferLayout per used stream carrying only the used
// attributes that read from it, with the per-variant stride applied.
func (l *InputLayout) VertexBuffers(strides [MaxVertexStreams]uint8) []gputypes.VertexBufferLayout {
	var out []gputypes.VertexBufferLayout
	for s := uint32(0); s < MaxVertexStreams; s++ {
		if !l.Streams.Used[s] {
			continue
		}
		var attrs []gputypes.VertexAttribute
		for i := range l.Attribs {
			a := &l.Attribs[i]
			if !a.Used || a.Stream != s {
				continue
			}
			attrs = append(attrs, gputypes.VertexAttribute{
				Format:         a.Format,
				Offset:         uint64(a.Offset),
				ShaderLocation: a.Location,
			})
		}
		out = append(out, gputypes.VertexBufferLayout{
			ArrayStride: uint64(strides[s]),
			StepMode:    l.Streams.StepMode[s],
			Attributes:  attrs,
		})
	}
	return out
}

// InputLayoutSource resolves input layout identifiers against the
// shader system's table. Safe for concurrent lookups.
type InputLayoutSource interface {
	InputLayout(id InputLayoutID) InputLayout
}
