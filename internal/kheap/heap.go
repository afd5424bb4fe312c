package kheap

import "fmt"

// Config describes the size of each region a Heap manages: four fixed-size
// slab regions and one free-list region. A real boot sequence would place
// these at fixed virtual addresses (kernel.Config documents the
// 0x4444_4444_0000 free-list base and the four adjacent 4 KiB slab regions
// below it) reached via the platform's frame allocator and mapper. Running
// as an ordinary hosted Go process, this package instead backs each region
// with its own GC-managed buffer (see Slab.backing, FreeList.backing) and
// only the sizes are configurable.
type Config struct {
	SlabPageSize uintptr // defaults to 4096 if zero
	FreeListSize uintptr // defaults to 100*1024 if zero
}

// DefaultConfig returns the boot-time defaults: a 100 KiB free list and
// four 4 KiB slab regions, one per fragment class.
func DefaultConfig() Config {
	return Config{
		SlabPageSize: 4096,
		FreeListSize: 100 * 1024,
	}
}

// Heap combines the four-class slab router with a free-list fallback:
// small, adequately aligned requests are routed to a slab; everything else,
// and any request whose class is exhausted, falls back to the free list.
type Heap struct {
	router   *SlabRouter
	freelist *FreeList
}

func newHeap(cfg Config) (*Heap, error) {
	pageSize := cfg.SlabPageSize
	if pageSize == 0 {
		pageSize = 4096
	}

	freeListSize := cfg.FreeListSize
	if freeListSize == 0 {
		freeListSize = 100 * 1024
	}

	router, err := NewSlabRouter(pageSize)
	if err != nil {
		return nil, fmt.Errorf("kheap: %w", err)
	}

	return &Heap{
		router:   router,
		freelist: NewFreeList(freeListSize),
	}, nil
}

// allocate routes size/align to the slab router when it can take the
// request, escalating to the free list on a miss or on slab exhaustion.
func (h *Heap) allocate(size, align uintptr) (uintptr, bool) {
	if h.router.Handles(size, align) {
		if addr, ok := h.router.Alloc(size, align); ok {
			return addr, true
		}
	}
	return h.freelist.Allocate(size, align)
}

// deallocate routes by where ptr actually lives rather than by recomputing
// the routing decision, so an allocation that escalated to the free list
// because its slab class was exhausted is freed there too.
func (h *Heap) deallocate(ptr, size, align uintptr) {
	if h.router.Owns(ptr) {
		h.router.Dealloc(ptr, size)
		return
	}
	h.freelist.Dealloc(ptr, size, align)
}

// Bounds reports the overall envelope of addresses this heap's regions
// occupy. The regions are independently backed and need not be contiguous
// or ordered; this is an informational envelope, not a membership test.
// Use validReturn for that.
func (h *Heap) Bounds() (low, high uintptr) {
	low, high = h.freelist.Bounds()
	for _, s := range h.router.slabs {
		if s.Base < low {
			low = s.Base
		}
		if end := s.Base + s.Size; end > high {
			high = end
		}
	}
	return low, high
}

// validReturn reports whether addr is an address this heap could actually
// have handed out for an allocation of size bytes aligned to align: either
// inside one of the slab regions, or inside the free-list region.
func (h *Heap) validReturn(addr, size, align uintptr) bool {
	if addr%align != 0 {
		return false
	}
	if h.router.Owns(addr) {
		return true
	}
	flLow, flHigh := h.freelist.Bounds()
	return addr >= flLow && addr+size <= flHigh
}

// SlabStats reports free-fragment counts per class, in class order.
func (h *Heap) SlabStats() [4]int { return h.router.Stats() }

// FreeListLiveBytes sums the size of every free block in the free list.
func (h *Heap) FreeListLiveBytes() uintptr { return h.freelist.LiveBytes() }
