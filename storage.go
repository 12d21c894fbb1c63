package pso

import (
	"github.com/gogpu/pso/driver"
)

// storage is the dense per-kind registry: a slot array of pipelines
// addressed by the program index and the kind's deduplicated layouts.
// Mutation is owner-thread serialized by the caller; steady-state reads
// are safe once population has quiesced.
type storage[T any, P interface {
	*T
	Pipeline
}] struct {
	layouts []*Layout
	slots   []P
}

// findOrAddLayout returns the layout matching the description, building
// and appending a new one on miss. A linear structural scan is fine:
// distinct layouts are few relative to the pipelines sharing them.
func (s *storage[T, P]) findOrAddLayout(dev driver.Device, desc *LayoutDescription) (*Layout, error) {
	for _, l := range s.layouts {
		if l.desc.matches(desc) {
			return l, nil
		}
	}
	l, err := newLayout(dev, desc)
	if err != nil {
		return nil, err
	}
	s.layouts = append(s.layouts, l)
	return l, nil
}

// put installs a pipeline at its slot, growing the slot array with nil
// fill. An occupied slot is a caller bug and goes to the fatal handler.
func (s *storage[T, P]) put(index uint32, p P) {
	for uint32(len(s.slots)) <= index {
		s.slots = append(s.slots, nil)
	}
	if s.slots[index] != nil {
		fatalf("pso: pipeline slot %d is already occupied", index)
		return
	}
	s.slots[index] = p
}

// get returns the slot's pipeline. The identifier is assumed valid;
// call valid first when in doubt.
func (s *storage[T, P]) get(index uint32) P {
	return s.slots[index]
}

// valid reports whether the slot exists and holds a live pipeline.
func (s *storage[T, P]) valid(index uint32) bool {
	return index < uint32(len(s.slots)) && s.slots[index] != nil
}

// takeOut detaches the slot's pipeline and returns ownership to the
// caller, leaving the slot empty for reuse. Used for removal deferred
// past in-flight command buffers.
func (s *storage[T, P]) takeOut(index uint32) P {
	if !s.valid(index) {
		return nil
	}
	p := s.slots[index]
	s.slots[index] = nil
	return p
}

// unload tears down every pipeline, then every layout, then clears both
// collections.
func (s *storage[T, P]) unload(dev driver.Device) {
	for i, p := range s.slots {
		if p != nil {
			p.shutdown()
			s.slots[i] = nil
		}
	}
	s.slots = nil
	for _, l := range s.layouts {
		l.shutdown(dev)
	}
	s.layouts = nil
}

// enumerate calls fn for every live pipeline in slot order.
func (s *storage[T, P]) enumerate(fn func(P)) {
	for _, p := range s.slots {
		if p != nil {
			fn(p)
		}
	}
}

// enumerateLayouts calls fn for every layout in creation order.
func (s *storage[T, P]) enumerateLayouts(fn func(*Layout)) {
	for _, l := range s.layouts {
		fn(l)
	}
}
