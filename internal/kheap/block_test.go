package kheap

import (
	"fmt"
	"testing"
)

func TestBlockSizeAndString(t *testing.T) {
	f := NewFreeList(4096)
	b := f.list.Head()
	if b == nil {
		t.Fatal("fresh FreeList should have one free block")
	}

	if got := b.Size(); got != 4096 {
		t.Errorf("Size() = %d, want 4096", got)
	}

	var _ fmt.Stringer = b
	if got := b.String(); got == "" {
		t.Error("String() returned empty string")
	}
}
