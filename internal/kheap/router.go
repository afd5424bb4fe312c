package kheap

import "fmt"

// SlabRouter routes small, adequately aligned allocations to one of four
// fixed-size slab caches, picking the smallest class C such that
// size <= C. A request whose align exceeds that class is declined rather
// than moved up to a larger class.
type SlabRouter struct {
	slabs [4]*Slab
}

// NewSlabRouter builds one pageSize-byte region per fragment class, in
// ascending order (128, 256, 512, 1024), each independently backed: no
// class's slab is ever aliased onto another's region.
func NewSlabRouter(pageSize uintptr) (*SlabRouter, error) {
	r := &SlabRouter{}

	for i, class := range fragmentClasses {
		slab, err := NewSlab(pageSize, uintptr(class))
		if err != nil {
			return nil, fmt.Errorf("kheap: building slab for class %d: %w", class, err)
		}
		r.slabs[i] = slab
	}

	return r, nil
}

// classFor returns the index of the smallest fragment class C with
// size <= C, or -1 if size exceeds the largest class.
func classFor(size uintptr) int {
	for i, class := range fragmentClasses {
		if size <= uintptr(class) {
			return i
		}
	}
	return -1
}

// Handles reports whether size/align are small and aligned enough for this
// router to serve at all.
func (r *SlabRouter) Handles(size, align uintptr) bool {
	idx := classFor(size)
	if idx < 0 {
		return false
	}
	return align <= uintptr(fragmentClasses[idx])
}

// Alloc routes size/align to its class and pops a fragment. ok is false if
// the request doesn't fit any class, or its class is exhausted.
func (r *SlabRouter) Alloc(size, align uintptr) (addr uintptr, ok bool) {
	if !r.Handles(size, align) {
		return 0, false
	}
	return r.slabs[classFor(size)].Allocate()
}

// Dealloc routes by the original allocation size to the class that owns
// ptr. Callers must pass the size used at allocation time; passing a size
// with no owning class is a fatal invariant violation.
func (r *SlabRouter) Dealloc(ptr, size uintptr) {
	idx := classFor(size)
	if idx < 0 {
		panic(fmt.Sprintf("kheap: dealloc size %d has no owning slab class", size))
	}
	r.slabs[idx].Deallocate(ptr)
}

// Owns reports whether ptr falls inside any of this router's slab regions.
func (r *SlabRouter) Owns(ptr uintptr) bool {
	for _, s := range r.slabs {
		if s.Contains(ptr) {
			return true
		}
	}
	return false
}

// Stats reports free-fragment counts per class, in class order.
func (r *SlabRouter) Stats() [4]int {
	var out [4]int
	for i, s := range r.slabs {
		out[i] = s.Free()
	}
	return out
}
