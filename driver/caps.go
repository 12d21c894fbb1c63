package driver

// SampleCountFlags is a bitmask of supported MSAA sample counts, one
// bit per count (bit value == sample count, Vulkan convention): 1, 2,
// 4, 8, 16, 32, 64.
type SampleCountFlags uint32

// Has reports whether the given sample count is present in the mask.
// Counts that are not a power of two are never supported.
func (f SampleCountFlags) Has(samples uint32) bool {
	if samples == 0 || samples&(samples-1) != 0 {
		return false
	}
	return uint32(f)&samples != 0
}

// Caps describes the device capabilities the pipeline manager consults
// during state translation. Queried once at startup and treated as
// immutable afterwards.
type Caps struct {
	// NoAttachmentSampleCounts is the set of sample counts usable for
	// forced multisampling without color or depth attachments.
	NoAttachmentSampleCounts SampleCountFlags

	// ConservativeRaster reports whether the conservative
	// rasterization extension is available.
	ConservativeRaster bool

	// DepthBoundsTest reports whether the depth bounds test is
	// available.
	DepthBoundsTest bool

	// DepthClamp reports whether depth clamping is available. Disabled
	// on constrained platforms.
	DepthClamp bool
}
