package kheap

import (
	"fmt"
	"unsafe"
)

// FragmentClass is one of the four fixed slab fragment sizes.
type FragmentClass uintptr

// The four fragment classes. Smallest-fit routing walks these in order
// and picks the first class >= the requested size.
const (
	Class128  FragmentClass = 128
	Class256  FragmentClass = 256
	Class512  FragmentClass = 512
	Class1024 FragmentClass = 1024
)

var fragmentClasses = [4]FragmentClass{Class128, Class256, Class512, Class1024}

// Slab is a single contiguous region carved into fragNum equal-size
// fragments and served LIFO by a SizedBlockStack. Each Slab is always
// built over its own region, never aliased onto another class's memory.
type Slab struct {
	Base     uintptr
	Size     uintptr
	FragSize uintptr
	backing  []byte // keeps the region's memory alive for the GC
	stack    *SizedBlockStack
}

// NewSlab allocates a size-byte region and carves it into fragments of
// fragSize bytes. size must be an exact multiple of fragSize.
func NewSlab(size, fragSize uintptr) (*Slab, error) {
	if fragSize == 0 || size%fragSize != 0 {
		return nil, fmt.Errorf("kheap: slab size %d is not a multiple of fragment size %d", size, fragSize)
	}

	backing := make([]byte, size)
	base := uintptr(unsafe.Pointer(&backing[0]))
	fragNum := int(size / fragSize)

	return &Slab{
		Base:     base,
		Size:     size,
		FragSize: fragSize,
		backing:  backing,
		stack:    NewSizedBlockStack(base, fragSize, fragNum),
	}, nil
}

// Allocate pops a fragment off the stack. ok is false on exhaustion, a
// recoverable condition the caller escalates (typically to the free list),
// never a panic.
func (s *Slab) Allocate() (addr uintptr, ok bool) {
	b := s.stack.Pop()
	if b == nil {
		return 0, false
	}
	return blockAddr(b), true
}

// Deallocate writes a fresh fragment header at ptr and returns it to the
// stack. The caller must guarantee ptr was handed out by this slab.
func (s *Slab) Deallocate(ptr uintptr) {
	s.stack.Push(blockAt(ptr))
}

// Contains reports whether ptr falls within this slab's region.
func (s *Slab) Contains(ptr uintptr) bool {
	return ptr >= s.Base && ptr < s.Base+s.Size
}

// Free reports the number of unallocated fragments remaining.
func (s *Slab) Free() int { return s.stack.Len() }
