// Package kheap implements the kernel's hybrid slab + free-list heap: four
// fixed-size slab caches for small allocations and a first-fit free list for
// everything else, both built from in-place block headers.
package kheap

import (
	"fmt"
	"unsafe"
)

// Block is the header of a unit of free heap memory. It lives in the memory
// it describes: a Block's address is both its header address and its
// payload address. A Block exists while its memory is free; it is consumed
// (overwritten) when allocated and reborn when deallocated.
type Block struct {
	size uintptr
	Next *Block
}

var _ fmt.Stringer = (*Block)(nil)

// Size reports the number of bytes this free block spans, header included.
func (b *Block) Size() uintptr { return b.size }

// String formats a Block for debugging: its header address and size.
func (b *Block) String() string {
	return fmt.Sprintf("Block{addr: 0x%x, size: %d}", blockAddr(b), b.size)
}

// blockHeaderSize is the minimum size any free block can have: it must be
// able to host its own header when split or reinserted.
var blockHeaderSize = unsafe.Sizeof(Block{})

// blockAt reinterprets addr as a Block header. The caller is responsible
// for addr pointing at memory this package owns and is not aliased.
func blockAt(addr uintptr) *Block {
	return (*Block)(unsafe.Pointer(addr)) //nolint:govet // intrusive header, audited
}

func blockAddr(b *Block) uintptr {
	return uintptr(unsafe.Pointer(b))
}

// BlockList is an intrusive singly linked list of Blocks with a length
// counter and a sentinel head, so every splice, including the first-fit
// free-list walk's in-place split, uses the same "previous.Next = x"
// shape instead of special-casing the first element.
type BlockList struct {
	sentinel Block
	len      int
}

// Len reports the number of blocks currently in the list.
func (l *BlockList) Len() int { return l.len }

// PushFront inserts b at the head of the list. LIFO: used by
// SizedBlockStack (push/pop) and by FreeList.Dealloc, where freed blocks
// go to the front without coalescing.
func (l *BlockList) PushFront(b *Block) {
	b.Next = l.sentinel.Next
	l.sentinel.Next = b
	l.len++
}

// PopFront removes and returns the head block, or nil if the list is empty.
func (l *BlockList) PopFront() *Block {
	b := l.sentinel.Next
	if b == nil {
		return nil
	}
	l.sentinel.Next = b.Next
	b.Next = nil
	l.len--
	return b
}

// Head returns the first block without removing it, or nil if empty. Used
// by read-only walks (conservation checks, tests).
func (l *BlockList) Head() *Block { return l.sentinel.Next }
