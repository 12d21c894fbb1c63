// Package pso compiles and manages GPU pipeline state objects for a
// real-time rendering backend.
//
// # Overview
//
// pso turns declarative shader/state descriptions into immutable,
// driver-native pipeline objects. It deduplicates shared resource
// layouts, compiles pipelines synchronously or on background workers,
// and tracks per-pipeline compiled/pending state so that command
// recording can safely wait on or bind results.
//
// # Quick Start
//
//	import "github.com/gogpu/pso"
//
//	mgr, err := pso.NewManager(dev, &pso.Config{
//	    AsyncCompile: true,
//	    PassClasses:  passes,
//	    RenderStates: states,
//	    InputLayouts: layouts,
//	})
//
//	prog := pso.MakeProgramID(pso.KindCompute, 0)
//	mgr.AddCompute(prog, cache, &pso.ComputeCreateInfo{ ... })
//
//	// Later, on the recording path. Bind blocks until the compile
//	// finishes if the pipeline is still pending.
//	mgr.GetCompute(prog).Bind(cmdBuffer)
//
// # Architecture
//
// The module is organized into:
//   - Public API: Manager, ComputePipeline, GraphicsPipeline,
//     RaytracePipeline, Layout, ProgramID
//   - driver: the narrow boundary to the native 3D API
//
// The native device, render pass resolution, static render state
// tables, and input layout resolution are external collaborators
// consumed through the interfaces in driver and in this package.
//
// # Concurrency
//
// Creation and teardown (Add*, PrepareRemoval, UnloadAll) must be
// serialized by the caller, typically on the owning thread. Lookups and
// binds are safe concurrently once population has quiesced; a bind on a
// pending pipeline blocks only until that specific pipeline finishes.
package pso
