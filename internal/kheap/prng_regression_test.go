package kheap

import (
	"testing"
	"unsafe"
)

// prngStep advances the test's linear congruential generator:
// x <- (8121x+28411) mod 134456.
func prngStep(x int) int {
	return (8121*x + 28411) % 134456
}

func writeTriple(addr uintptr, v uintptr) {
	p := (*[3]uintptr)(unsafe.Pointer(addr)) //nolint:govet // intrusive test write, region owned by the heap under test
	p[0], p[1], p[2] = v, v, v
}

func readTriple(addr uintptr) [3]uintptr {
	return *(*[3]uintptr)(unsafe.Pointer(addr)) //nolint:govet // see writeTriple
}

// TestPRNGInsertRemoveRegression runs a pseudorandom insert/remove
// workload: 40000 iterations of a PRNG-driven key in [0, 1000), toggling
// between allocating a 3-word (k, k, k) record and freeing the one
// already live for that key. It drives kheap.Heap directly, so every
// insert is a real Alloc and every remove a real Dealloc, and verifies
// the freed record's content on removal to catch any allocator bug that
// corrupts or overlaps a still-live region.
func TestPRNGInsertRemoveRegression(t *testing.T) {
	h, err := newHeap(DefaultConfig())
	if err != nil {
		t.Fatalf("newHeap: %v", err)
	}

	const recordSize = uintptr(unsafe.Sizeof([3]uintptr{}))
	const align = uintptr(unsafe.Alignof(uintptr(0)))

	live := make(map[int]uintptr)
	randRaw := 0

	for i := 0; i < 40000; i++ {
		key := randRaw % 1000

		if addr, ok := live[key]; ok {
			got := readTriple(addr)
			want := [3]uintptr{uintptr(key), uintptr(key), uintptr(key)}
			if got != want {
				t.Fatalf("iteration %d: record for key %d = %v, want %v", i, key, got, want)
			}
			h.deallocate(addr, recordSize, align)
			delete(live, key)
		} else {
			addr, ok := h.allocate(recordSize, align)
			if !ok {
				t.Fatalf("iteration %d: allocate failed with %d live records", i, len(live))
			}
			writeTriple(addr, uintptr(key))
			live[key] = addr
		}

		randRaw = prngStep(randRaw)
	}
}
