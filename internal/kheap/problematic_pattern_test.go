package kheap

import "testing"

// TestProblematicAllocationPattern runs a sequence of allocations chosen
// to exercise the alignment-padding split path: request 5 forces a
// left-remainder gap that requests 10 and 11 later reclaim, followed by
// freeing requests 11 and 10 and a reallocation that reuses 11's block.
func TestProblematicAllocationPattern(t *testing.T) {
	f := NewFreeList(100 * 1024)

	alloc := func(t *testing.T, size, align uintptr) uintptr {
		t.Helper()
		addr, ok := f.Allocate(size, align)
		if !ok {
			t.Fatalf("Allocate(0x%x, 0x%x) failed", size, align)
		}
		return addr
	}

	addr1 := alloc(t, 0xc0, 0x8)

	addr2 := alloc(t, 0x38, 0x8)
	if addr2 != addr1+0xc0 {
		t.Fatalf("addr2 = 0x%x, want 0x%x", addr2, addr1+0xc0)
	}

	addr3 := alloc(t, 0x3e8, 0x1)
	if addr3 != addr2+0x38 {
		t.Fatalf("addr3 = 0x%x, want 0x%x", addr3, addr2+0x38)
	}

	addr4 := alloc(t, 0x640, 0x8)
	if addr4 != addr3+0x3e8 {
		t.Fatalf("addr4 = 0x%x, want 0x%x", addr4, addr3+0x3e8)
	}

	addr5 := alloc(t, 0x200, 0x80)
	if want := alignUp(addr4+0x640, 0x80); addr5 != want {
		t.Fatalf("addr5 = 0x%x, want 0x%x", addr5, want)
	}

	addr6 := alloc(t, 0x3e8, 0x1)
	if addr6 != addr5+0x200 {
		t.Fatalf("addr6 = 0x%x, want 0x%x", addr6, addr5+0x200)
	}

	addr7 := alloc(t, 0xc0, 0x8)
	if addr7 != addr6+0x3e8 {
		t.Fatalf("addr7 = 0x%x, want 0x%x", addr7, addr6+0x3e8)
	}

	addr8 := alloc(t, 0x3e8, 0x1)
	if addr8 != addr7+0xc0 {
		t.Fatalf("addr8 = 0x%x, want 0x%x", addr8, addr7+0xc0)
	}

	addr9 := alloc(t, 0x3e8, 0x1)
	if addr9 != addr8+0x3e8 {
		t.Fatalf("addr9 = 0x%x, want 0x%x", addr9, addr8+0x3e8)
	}

	addr10 := alloc(t, 0x18, 0x8)
	if want := alignUp(addr4+0x640, 0x8); addr10 != want {
		t.Fatalf("addr10 = 0x%x, want 0x%x (the gap left by addr5's alignment split)", addr10, want)
	}

	addr11 := alloc(t, 0x20, 0x8)
	if addr11 != addr10+0x18 {
		t.Fatalf("addr11 = 0x%x, want 0x%x", addr11, addr10+0x18)
	}

	addr12 := alloc(t, 0x118, 0x8)
	if addr12 != addr9+0x3e8 {
		t.Fatalf("addr12 = 0x%x, want 0x%x", addr12, addr9+0x3e8)
	}

	f.Dealloc(addr11, 0x20, 0x8)
	f.Dealloc(addr10, 0x18, 0x8)

	addr14 := alloc(t, 0x20, 0x8)
	if addr14 != addr11 {
		t.Fatalf("addr14 = 0x%x, want 0x%x (reuse of the freed 0x20 block)", addr14, addr11)
	}
}
