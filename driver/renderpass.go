package driver

import (
	"github.com/gogpu/wgpu/hal"
)

// MaxColorTargets is the maximum number of simultaneous color targets a
// render pass subpass may reference.
const MaxColorTargets = 8

// RenderPassHandle is an opaque native render pass handle referenced by
// a graphics pipeline create info.
type RenderPassHandle interface {
	hal.NativeHandle
}

// RenderPass is a native render pass resource with per-subpass metadata
// and compile-reference bookkeeping. While a pipeline compile holds a
// reference, the pass must not be destroyed.
type RenderPass interface {
	RenderPassHandle

	// SampleCount returns the MSAA sample count at the given subpass.
	SampleCount(subpass uint32) uint32

	// HasDepth reports whether the given subpass has a depth attachment.
	HasDepth(subpass uint32) bool

	// ColorTargetMask returns the bitmask of color targets written at
	// the given subpass, bit i for target i.
	ColorTargetMask(subpass uint32) uint32

	// AddCompileRef marks the pass as referenced by an in-flight
	// pipeline compile.
	AddCompileRef()

	// ReleaseCompileRef drops a reference taken with AddCompileRef.
	ReleaseCompileRef()
}

// DepthMode describes the depth attachment state of a render pass class.
type DepthMode uint8

const (
	// DepthNone means the pass class has no depth attachment.
	DepthNone DepthMode = iota

	// DepthReadWrite means depth is attached and writable.
	DepthReadWrite

	// DepthReadOnly means depth is attached but writes are forbidden.
	DepthReadOnly
)

// RenderPassClass is the abstract description of a render pass used by
// pipelines that are not bound to a pre-existing native pass object.
// A pass-class registry resolves it to a compatible native pass.
type RenderPassClass struct {
	// ColorTargetMask has bit i set when color target i is written.
	ColorTargetMask uint32

	// ColorSamples holds the per-target sample counts. Index 0 drives
	// the pipeline's inherited sample count.
	ColorSamples [MaxColorTargets]uint8

	// DepthMode is the depth attachment state.
	DepthMode DepthMode
}

// PassClassResolver resolves abstract render pass classes to native
// pass handles, creating them on first use. Implemented by the render
// pass subsystem.
type PassClassResolver interface {
	Resolve(class RenderPassClass) (RenderPassHandle, error)
}
