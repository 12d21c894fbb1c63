package pso

import (
	"fmt"
	"reflect"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pso/driver"
)

// LayoutDescription is the structural binding signature of a pipeline.
// Two pipelines with equal descriptions are binding-compatible and must
// share one Layout.
type LayoutDescription struct {
	// Groups holds the ordered bind group (descriptor set) layouts.
	Groups [][]gputypes.BindGroupLayoutEntry

	// PushConstantBytes is the push constant range size, zero when the
	// pipeline uses none.
	PushConstantBytes uint32

	// Stages is the set of shader stages the pipeline populates. The
	// tessellation stages switch the tessellation block on.
	Stages driver.StageFlags

	// FragmentOutputMask has bit i set when the fragment shader writes
	// color output i. Drives per-attachment write mask agreement.
	FragmentOutputMask uint8
}

// matches reports structural equality of two descriptions.
func (d *LayoutDescription) matches(other *LayoutDescription) bool {
	return reflect.DeepEqual(d, other)
}

// hasTessellation reports whether the description names tessellation
// stages.
func (d *LayoutDescription) hasTessellation() bool {
	return d.Stages&(driver.StageTessControl|driver.StageTessEval) != 0
}

// Layout is a deduplicated pipeline resource layout. It is shared
// read-only by every pipeline whose binding signature matches; the
// owning storage destroys it on unload.
type Layout struct {
	desc   LayoutDescription
	handle hal.PipelineLayout
}

// newLayout builds the native layout object for a description.
func newLayout(dev driver.Device, desc *LayoutDescription) (*Layout, error) {
	h, err := dev.CreatePipelineLayout(&driver.PipelineLayoutCreateInfo{
		Groups:            desc.Groups,
		PushConstantBytes: desc.PushConstantBytes,
		Stages:            desc.Stages,
	})
	if err != nil {
		return nil, fmt.Errorf("pso: create pipeline layout: %w", err)
	}
	return &Layout{desc: *desc, handle: h}, nil
}

// Description returns the layout's binding signature.
func (l *Layout) Description() *LayoutDescription { return &l.desc }

// Handle returns the native layout object.
func (l *Layout) Handle() hal.PipelineLayout { return l.handle }

func (l *Layout) shutdown(dev driver.Device) {
	if l.handle != nil {
		dev.DestroyPipelineLayout(l.handle)
		l.handle = nil
	}
}
