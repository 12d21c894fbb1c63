package pso

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// ShaderBlob carries pre-built shader code for a compute or raytracing
// stage. Exactly one of SPIRV or WGSL must be set; WGSL sources are
// translated to SPIR-V with naga before module creation so every driver
// sees the same intermediate form.
type ShaderBlob struct {
	Label string
	SPIRV []uint32
	WGSL  string
}

// descriptor converts the blob into a hal shader module descriptor.
func (b *ShaderBlob) descriptor() (*hal.ShaderModuleDescriptor, error) {
	switch {
	case len(b.SPIRV) > 0:
		return &hal.ShaderModuleDescriptor{
			Label:  b.Label,
			Source: hal.ShaderSource{SPIRV: b.SPIRV},
		}, nil
	case b.WGSL != "":
		spirv, err := CompileWGSL(b.WGSL)
		if err != nil {
			return nil, fmt.Errorf("pso: compile %q: %w", b.Label, err)
		}
		return &hal.ShaderModuleDescriptor{
			Label:  b.Label,
			Source: hal.ShaderSource{SPIRV: spirv},
		}, nil
	default:
		return nil, ErrEmptyShaderBlob
	}
}

// CompileWGSL translates WGSL source to SPIR-V words using naga.
func CompileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}

	// SPIR-V words are little-endian.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
