package kheap

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/orizon-lang/corekernel/internal/ksync"
)

// ErrOutOfMemory is the recoverable failure returned (as a nil pointer, per
// the language-standard global-allocation hook shape) when the heap cannot
// satisfy a request. Use errors.Is against the handler's panic value when
// one is surfaced as an error instead of propagated as a panic.
var ErrOutOfMemory = errors.New("kheap: out of memory")

// Layout describes a requested allocation's size and alignment.
type Layout struct {
	Size  uintptr
	Align uintptr
}

func (l Layout) valid() bool {
	return l.Align != 0 && l.Align&(l.Align-1) == 0
}

// LockedHeap wraps Heap behind a spinlock, giving the global-allocation
// hook shape: Alloc(layout) -> pointer-or-nil, Dealloc(ptr, layout).
type LockedHeap struct {
	lock *ksync.SpinLock[Heap]
}

// NewLockedHeap builds the slab regions and free-list region described by
// cfg and wraps them behind a spinlock.
func NewLockedHeap(cfg Config) (*LockedHeap, error) {
	h, err := newHeap(cfg)
	if err != nil {
		return nil, err
	}
	return &LockedHeap{lock: ksync.New(*h)}, nil
}

// Alloc satisfies the global allocation hook. A non-power-of-two alignment
// is an InvalidLayout, a fatal invariant violation, and panics; exhaustion
// is OutOfMemory, a recoverable condition signaled by a nil return.
func (lh *LockedHeap) Alloc(layout Layout) unsafe.Pointer {
	if layout.Size == 0 {
		return nil
	}
	if !layout.valid() {
		panic(fmt.Sprintf("kheap: invalid alignment %d: must be a power of two", layout.Align))
	}

	g := lh.lock.Lock()
	defer g.Unlock()

	addr, ok := g.Value().allocate(layout.Size, layout.Align)
	if !ok {
		return nil
	}

	if !g.Value().validReturn(addr, layout.Size, layout.Align) {
		panic(fmt.Sprintf("kheap: allocator returned out-of-contract pointer 0x%x for %+v", addr, layout))
	}

	return unsafe.Pointer(addr) //nolint:govet // raw heap address, contract-checked above
}

// Dealloc returns memory to the heap. The caller must pass the exact
// layout used at allocation time; a nil ptr is a no-op.
func (lh *LockedHeap) Dealloc(ptr unsafe.Pointer, layout Layout) {
	if ptr == nil {
		return
	}
	g := lh.lock.Lock()
	defer g.Unlock()
	g.Value().deallocate(uintptr(ptr), layout.Size, layout.Align)
}

// Bounds reports the envelope of addresses the heap's regions occupy. As
// with Heap.Bounds, not every address inside it belongs to the heap.
func (lh *LockedHeap) Bounds() (low, high uintptr) {
	g := lh.lock.Lock()
	defer g.Unlock()
	return g.Value().Bounds()
}

// SlabStats reports free-fragment counts per class, in class order.
func (lh *LockedHeap) SlabStats() [4]int {
	g := lh.lock.Lock()
	defer g.Unlock()
	return g.Value().SlabStats()
}

var global *LockedHeap

// SetGlobal installs the process-wide heap singleton used by the
// package-level Alloc/Free convenience functions.
func SetGlobal(h *LockedHeap) { global = h }

// Alloc allocates via the global heap singleton. Exhaustion invokes the
// out-of-memory handler: a panic carrying the layout, since this top-level
// entry point has nowhere further to report failure to the caller.
// LockedHeap.Alloc itself stays recoverable.
func Alloc(layout Layout) unsafe.Pointer {
	if global == nil {
		panic("kheap: global heap not initialized")
	}
	ptr := global.Alloc(layout)
	if ptr == nil {
		panic(fmt.Errorf("%w: %+v", ErrOutOfMemory, layout))
	}
	return ptr
}

// Free deallocates via the global heap singleton.
func Free(ptr unsafe.Pointer, layout Layout) {
	if global == nil {
		panic("kheap: global heap not initialized")
	}
	global.Dealloc(ptr, layout)
}
