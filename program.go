package pso

import "fmt"

// Kind distinguishes the closed set of pipeline kinds. Each kind has
// its own program identifier namespace and its own storage.
type Kind uint8

const (
	// KindInvalid is the zero value; no valid ProgramID carries it.
	KindInvalid Kind = iota
	KindCompute
	KindGraphics
	KindRaytrace
)

// String returns a short tag used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindCompute:
		return "compute"
	case KindGraphics:
		return "gfx"
	case KindRaytrace:
		return "rt"
	default:
		return "invalid"
	}
}

// programIndexBits is the width of the dense index portion of a
// ProgramID. The remaining high bits carry the kind tag.
const (
	programIndexBits = 24
	programIndexMask = 1<<programIndexBits - 1
)

// ProgramID is an opaque, strongly typed shader program identifier.
// It packs a kind tag and a dense storage index. IDs are issued by the
// upstream shader program system and consumed here as lookup keys.
// The zero value is invalid.
type ProgramID uint32

// MakeProgramID builds an identifier from a kind and a dense index.
func MakeProgramID(kind Kind, index uint32) ProgramID {
	return ProgramID(uint32(kind)<<programIndexBits | index&programIndexMask)
}

// Kind returns the identifier's namespace tag.
func (id ProgramID) Kind() Kind {
	k := Kind(id >> programIndexBits)
	if k > KindRaytrace {
		return KindInvalid
	}
	return k
}

// Index returns the dense storage slot index.
func (id ProgramID) Index() uint32 {
	return uint32(id) & programIndexMask
}

// Valid reports whether the identifier carries a known kind tag.
func (id ProgramID) Valid() bool {
	return id.Kind() != KindInvalid
}

// String formats as "kind:index" for diagnostics.
func (id ProgramID) String() string {
	return fmt.Sprintf("%s:%d", id.Kind(), id.Index())
}
