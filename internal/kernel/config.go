// Package kernel wires the heap, executor, and platform collaborator
// together into the bootable unit the demo binary runs.
package kernel

import "github.com/orizon-lang/corekernel/internal/kheap"

// Config describes everything a Kernel needs to boot: the memory layout
// and the platform collaborator it will drive interrupts and paging
// through.
type Config struct {
	// FreeListBase and SlabBase document the fixed virtual addresses a
	// real boot sequence would map these regions at: a 100 KiB free list
	// based at 0x4444_4444_0000, with four 4 KiB slab regions immediately
	// below it, one per fragment class. Running as a hosted Go process,
	// kheap backs every region with its own GC-managed buffer instead, so
	// these fields are informational only: Status reports them, nothing
	// maps memory there.
	FreeListBase uintptr
	SlabBase     uintptr

	Heap kheap.Config
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithHeapConfig overrides the default heap region sizes.
func WithHeapConfig(cfg kheap.Config) Option {
	return func(c *Config) { c.Heap = cfg }
}

// WithFreeListBase overrides the informational free-list base address.
func WithFreeListBase(base uintptr) Option {
	return func(c *Config) { c.FreeListBase = base }
}

// DefaultConfig returns the boot-time defaults: a 100 KiB free list based
// at 0x4444_4444_0000 and four 4 KiB slab regions below it.
func DefaultConfig() Config {
	const freeListBase = 0x4444_4444_0000
	const slabRegionSize = 4 * 4096

	return Config{
		FreeListBase: freeListBase,
		SlabBase:     freeListBase - slabRegionSize,
		Heap:         kheap.DefaultConfig(),
	}
}
