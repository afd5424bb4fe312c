package kexec

import "testing"

func TestRingBasic(t *testing.T) {
	r := newRing[int](8)
	if !r.Push(1) || !r.Push(2) {
		t.Fatal("push failed")
	}
	if v, ok := r.Pop(); !ok || v != 1 {
		t.Fatalf("got %d, %v", v, ok)
	}
	if v, ok := r.Pop(); !ok || v != 2 {
		t.Fatalf("got %d, %v", v, ok)
	}
	if _, ok := r.Pop(); ok {
		t.Fatal("expected empty")
	}
}

func TestRingCapacityRoundsToPowerOfTwo(t *testing.T) {
	r := newRing[int](100)
	if len(r.cells) != 128 {
		t.Errorf("cells = %d, want 128", len(r.cells))
	}
}

func TestRingFullRejectsPush(t *testing.T) {
	r := newRing[int](2)
	if !r.Push(1) || !r.Push(2) {
		t.Fatal("push to capacity should succeed")
	}
	if r.Push(3) {
		t.Error("push beyond capacity should fail")
	}
}

func TestRingEmpty(t *testing.T) {
	r := newRing[int](4)
	if !r.Empty() {
		t.Fatal("fresh ring should be empty")
	}
	r.Push(1)
	if r.Empty() {
		t.Error("ring with one element should not be empty")
	}
	r.Pop()
	if !r.Empty() {
		t.Error("ring should be empty after draining")
	}
}
