package kheap

import (
	"runtime"
	"testing"
	"unsafe"
)

func TestFreeListBasicAllocDealloc(t *testing.T) {
	f := NewFreeList(4096)
	regionSize := uintptr(4096)

	t.Run("ConservationHoldsAfterRoundTrip", func(t *testing.T) {
		if got := f.LiveBytes(); got != regionSize {
			t.Fatalf("LiveBytes() = %d, want %d", got, regionSize)
		}

		addr, ok := f.Allocate(64, 8)
		if !ok {
			t.Fatal("Allocate(64, 8) failed")
		}
		if addr%8 != 0 {
			t.Errorf("addr 0x%x not aligned to 8", addr)
		}

		f.Dealloc(addr, 64, 8)
		if got := f.LiveBytes(); got != regionSize {
			t.Errorf("LiveBytes() after round trip = %d, want %d", got, regionSize)
		}
	})

	t.Run("SequentialAllocationsDoNotOverlap", func(t *testing.T) {
		f := NewFreeList(4096)
		var addrs []uintptr
		for i := 0; i < 4; i++ {
			addr, ok := f.Allocate(256, 8)
			if !ok {
				t.Fatalf("Allocate(256, 8) #%d failed", i)
			}
			for _, prior := range addrs {
				if addr >= prior && addr < prior+256 {
					t.Fatalf("addr 0x%x overlaps prior allocation at 0x%x", addr, prior)
				}
			}
			addrs = append(addrs, addr)
		}
	})

	t.Run("ExhaustionFails", func(t *testing.T) {
		f := NewFreeList(128)
		if _, ok := f.Allocate(128, 8); !ok {
			t.Fatal("first Allocate(128, 8) should succeed")
		}
		if _, ok := f.Allocate(1, 1); ok {
			t.Error("Allocate after exhaustion should fail")
		}
	})
}

// TestFreeListAlignmentPadding exercises the misaligned-candidate path: a
// request whose alignment doesn't divide the free block's address forces a
// left-padding split before the returned block.
func TestFreeListAlignmentPadding(t *testing.T) {
	f := NewFreeList(4096)

	// Force the single free block out of natural alignment for a large
	// align value by first peeling off a small unaligned chunk.
	if _, ok := f.Allocate(1, 1); !ok {
		t.Fatal("Allocate(1, 1) failed")
	}

	addr, ok := f.Allocate(64, 64)
	if !ok {
		t.Fatal("Allocate(64, 64) failed")
	}
	if addr%64 != 0 {
		t.Errorf("addr 0x%x not aligned to 64", addr)
	}

	f.Dealloc(addr, 64, 64)
}

// TestFreeListAlignmentSplitSkipsBlockTooSmallForSizeP covers the
// misaligned-candidate split path when the aligned remainder covers the
// raw request but not its header-padded size: the block must be skipped
// rather than handed back truncated, since a later Dealloc would write a
// full sizeP-sized header past the end of the returned region.
func TestFreeListAlignmentSplitSkipsBlockTooSmallForSizeP(t *testing.T) {
	const align = uintptr(64)
	const size = uintptr(1) // smaller than blockHeaderSize, so sizeP == blockHeaderSize
	sizeP := blockHeaderSize

	buf := make([]byte, 512)
	base := uintptr(unsafe.Pointer(&buf[0]))

	// Start the lone free block at an address not already aligned to
	// `align`, so Allocate takes the misaligned-candidate split path.
	k := uintptr(0)
	if base%align == 0 {
		k = 1
	}
	curAddr := base + k

	a := alignUp(curAddr, align)
	for a-curAddr < blockHeaderSize {
		a += align
	}

	// Size the block so its remainder past the aligned split point is one
	// byte short of sizeP: enough for the raw request, not enough for the
	// padded size actually committed at Dealloc time.
	cur := blockAt(curAddr)
	cur.size = (a - curAddr) + (sizeP - 1)
	cur.Next = nil

	f := &FreeList{start: base, end: base + uintptr(len(buf)), backing: buf}
	f.list.PushFront(cur)

	if _, ok := f.Allocate(size, align); ok {
		t.Fatal("Allocate should decline a split whose remainder can't hold sizeP, not return a truncated block")
	}
	runtime.KeepAlive(buf)
}

func TestAlignUp(t *testing.T) {
	cases := []struct{ x, a, want uintptr }{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{100, 64, 128},
	}
	for _, c := range cases {
		if got := alignUp(c.x, c.a); got != c.want {
			t.Errorf("alignUp(%d, %d) = %d, want %d", c.x, c.a, got, c.want)
		}
	}
}
