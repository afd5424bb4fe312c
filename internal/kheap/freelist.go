package kheap

import "unsafe"

// alignUp rounds x up to the nearest multiple of a. a must be a power of
// two.
func alignUp(x, a uintptr) uintptr {
	return (x + a - 1) &^ (a - 1)
}

// FreeList is a first-fit allocator over a contiguous region, holding
// variable-size free blocks and splitting in place with alignment padding
// when a candidate block isn't already aligned for the request.
//
// No coalescing is performed: freed blocks are pushed to the front of the
// list as-is and never merged with adjacent free neighbors. Long-running
// callers that alloc/free many different sizes will fragment the region
// over time; this is an accepted limitation, not a bug to route around.
type FreeList struct {
	start   uintptr
	end     uintptr
	backing []byte // keeps the region's memory alive for the GC
	list    BlockList
}

// NewFreeList allocates a size-byte region and installs a single free block
// spanning it.
func NewFreeList(size uintptr) *FreeList {
	backing := make([]byte, size)
	start := uintptr(unsafe.Pointer(&backing[0]))

	f := &FreeList{start: start, end: start + size, backing: backing}
	b := blockAt(start)
	b.size = size
	f.list.PushFront(b)
	return f
}

// Bounds reports the region's address range.
func (f *FreeList) Bounds() (start, end uintptr) { return f.start, f.end }

// LiveBytes sums the size of every free block currently in the list. In the
// absence of split-induced fragmentation loss this plus all outstanding
// allocations equals the region size.
func (f *FreeList) LiveBytes() uintptr {
	var total uintptr
	for cur := f.list.Head(); cur != nil; cur = cur.Next {
		total += cur.size
	}
	return total
}

// Allocate walks the list first-fit. For a candidate block already aligned
// for align, it is used directly (split if there's enough room left over
// for a free remainder, consumed whole otherwise). For a misaligned
// candidate, it computes the first address A >= align-rounded start of the
// block such that A leaves room for a left free block of at least
// blockHeaderSize bytes, then treats [A, block end) as a fresh candidate
// for the same split logic.
func (f *FreeList) Allocate(size, align uintptr) (addr uintptr, ok bool) {
	if size == 0 {
		size = 1
	}
	sizeP := size
	if sizeP < blockHeaderSize {
		sizeP = blockHeaderSize
	}

	prev := &f.list.sentinel
	cur := prev.Next

	for cur != nil {
		curAddr := blockAddr(cur)

		if curAddr%align == 0 {
			if cur.size < sizeP {
				prev, cur = cur, cur.Next
				continue
			}

			if cur.size > sizeP+blockHeaderSize {
				tail := blockAt(curAddr + sizeP)
				tail.size = cur.size - sizeP
				tail.Next = cur.Next
				prev.Next = tail
			} else {
				prev.Next = cur.Next
				f.list.len--
			}

			return curAddr, true
		}

		a := alignUp(curAddr, align)
		for a-curAddr < blockHeaderSize {
			a += align
		}

		blockEnd := curAddr + cur.size
		if a > blockEnd-1 || blockEnd-a < size {
			prev, cur = cur, cur.Next
			continue
		}

		origNext := cur.Next
		rightSize := blockEnd - a

		// rightSize must cover sizeP, not just the raw request: a
		// remainder smaller than sizeP would later take a full-header
		// Dealloc write it can't actually hold, corrupting whatever
		// follows it in the region.
		if rightSize < sizeP {
			prev, cur = cur, cur.Next
			continue
		}

		cur.size = a - curAddr // left remainder, re-linked in place of cur

		if rightSize > sizeP+blockHeaderSize {
			tail := blockAt(a + sizeP)
			tail.size = rightSize - sizeP
			tail.Next = origNext
			cur.Next = tail
			f.list.len++
		} else {
			cur.Next = origNext
		}

		prev.Next = cur
		return a, true
	}

	return 0, false
}

// Dealloc writes a free-block header at ptr with size = max(size,
// blockHeaderSize), the size used at allocation time padded to the
// minimum, and pushes it onto the front of the list.
func (f *FreeList) Dealloc(ptr, size, align uintptr) {
	_ = align
	sizeP := size
	if sizeP < blockHeaderSize {
		sizeP = blockHeaderSize
	}
	b := blockAt(ptr)
	b.size = sizeP
	f.list.PushFront(b)
}
