package pso

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestStaticStateWriteMaskNibbles(t *testing.T) {
	st := StaticState{ColorMask: 0x0000F5AF}

	tests := []struct {
		attachment uint32
		want       gputypes.ColorWriteMask
	}{
		{0, 0xF},
		{1, 0xA},
		{2, 0x5},
		{3, 0xF},
		{4, 0x0},
	}
	for _, tt := range tests {
		if got := st.writeMask(tt.attachment); got != tt.want {
			t.Errorf("writeMask(%d) = %x, want %x", tt.attachment, got, tt.want)
		}
	}
}

func TestBlendParamsUsesConstant(t *testing.T) {
	tests := []struct {
		name string
		bp   BlendParams
		want bool
	}{
		{"disabled", BlendParams{SrcFactor: gputypes.BlendFactorConstant}, false},
		{"src constant", BlendParams{BlendEnable: true, SrcFactor: gputypes.BlendFactorConstant}, true},
		{"dst one minus constant", BlendParams{BlendEnable: true, DstFactor: gputypes.BlendFactorOneMinusConstant}, true},
		{"plain factors", BlendParams{BlendEnable: true, SrcFactor: gputypes.BlendFactorOne}, false},
		{
			"separate alpha constant",
			BlendParams{BlendEnable: true, SeparateAlphaEnable: true, SrcAlphaFactor: gputypes.BlendFactorConstant},
			true,
		},
		{
			"alpha constant ignored without separate alpha",
			BlendParams{BlendEnable: true, SrcAlphaFactor: gputypes.BlendFactorConstant},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bp.usesConstant(); got != tt.want {
				t.Errorf("usesConstant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInputLayoutNoUsedStreams(t *testing.T) {
	var l InputLayout
	l.Attribs = []InputAttrib{{Used: true, Location: 0}}

	if got := l.VertexBuffers([MaxVertexStreams]uint8{}); got != nil {
		t.Errorf("VertexBuffers = %v, want nil without used streams", got)
	}
}

func TestInputLayoutAttributesFollowTheirStream(t *testing.T) {
	l := defaultInputLayout()
	bufs := l.VertexBuffers([MaxVertexStreams]uint8{16, 8})

	if len(bufs) != 2 {
		t.Fatalf("buffer count = %d, want 2", len(bufs))
	}
	if bufs[0].Attributes[0].ShaderLocation != 0 {
		t.Errorf("stream 0 carries location %d, want 0", bufs[0].Attributes[0].ShaderLocation)
	}
	if bufs[1].Attributes[0].ShaderLocation != 2 {
		t.Errorf("stream 1 carries location %d, want 2", bufs[1].Attributes[0].ShaderLocation)
	}
}
