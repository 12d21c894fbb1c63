// Package driver defines the narrow boundary between the pipeline
// manager and the native 3D API.
//
// The manager never talks to a concrete graphics binding. Everything it
// needs from the platform (shader module construction, pipeline layout
// and pipeline object creation, render pass metadata, device capability
// queries) flows through the small interfaces in this package.
// Implementations wrap whatever object model the platform provides;
// the pure Go path wraps a gogpu/wgpu hal.Device.
//
// Handle types reuse the gogpu/wgpu/hal vocabulary (hal.ShaderModule,
// hal.PipelineLayout, hal.Resource, hal.NativeHandle), and all state
// enums come from github.com/gogpu/gputypes, so a driver implementation
// translates rather than re-encodes.
package driver
