package kernel

import (
	"fmt"
	"io"
	"sync"

	"github.com/orizon-lang/corekernel/internal/kexec"
	"github.com/orizon-lang/corekernel/internal/kheap"
	"github.com/orizon-lang/corekernel/internal/klog"
	"github.com/orizon-lang/corekernel/internal/kplatform"
)

// Kernel bundles the heap, the cooperative executor, the scancode stream,
// and the platform collaborator driving them, plus the writer the boot
// banner and warnings go to.
type Kernel struct {
	Out       io.Writer
	Config    Config
	Heap      *kheap.LockedHeap
	Executor  *kexec.Executor
	Scancodes *kexec.ScancodeStream
	Platform  kplatform.Platform
}

// scancodes is the process-wide scancode stream. kexec.NewScancodeStream
// panics when called twice, so every Kernel shares the one built by the
// first call to New.
var (
	scancodes     *kexec.ScancodeStream
	scancodesOnce sync.Once
)

// New builds a Kernel from a platform collaborator and an optional set of
// Config overrides, wiring a fresh heap and executor together with the
// process-wide scancode stream and installing the heap as the process-wide
// global.
func New(out io.Writer, platform kplatform.Platform, opts ...Option) (*Kernel, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	heap, err := kheap.NewLockedHeap(cfg.Heap)
	if err != nil {
		return nil, fmt.Errorf("kernel: initializing heap: %w", err)
	}
	kheap.SetGlobal(heap)
	scancodesOnce.Do(func() { scancodes = kexec.NewScancodeStream() })

	k := &Kernel{
		Out:       out,
		Config:    cfg,
		Heap:      heap,
		Executor:  kexec.NewExecutor(platform),
		Scancodes: scancodes,
		Platform:  platform,
	}

	platform.RegisterScancodeSink(func(b byte) {
		k.Scancodes.AddScancode(b, k.Out)
	})

	return k, nil
}

// Boot prints the boot banner and runs the self-test suite, mirroring a
// real kernel's init sequence without any process, filesystem, or network
// stage: this core only owns memory and task scheduling.
func (k *Kernel) Boot() error {
	klog.Infof(k.Out, "========================================")
	klog.Infof(k.Out, "corekernel booting")
	klog.Infof(k.Out, "========================================")

	low, high := k.Heap.Bounds()
	klog.Infof(k.Out, "heap: free list %d bytes, slab page %d bytes, region [0x%x, 0x%x)",
		k.Config.Heap.FreeListSize, k.Config.Heap.SlabPageSize, low, high)

	if err := k.RunSelfTest(); err != nil {
		return fmt.Errorf("kernel: self test failed: %w", err)
	}

	klog.Infof(k.Out, "corekernel ready")
	return nil
}

// Status reports a snapshot of kernel state, the hosted-process analogue
// of a real kernel's /proc-style introspection.
func (k *Kernel) Status() map[string]any {
	low, high := k.Heap.Bounds()
	slabStats := k.Heap.SlabStats()

	return map[string]any{
		"heap_region_low":        low,
		"heap_region_high":       high,
		"slab_free_fragments":    slabStats,
		"executor_ready":         k.Executor.ReadyLen(),
		"executor_waiting":       k.Executor.Waiting(),
		"free_list_base_address": k.Config.FreeListBase,
		"slab_base_address":      k.Config.SlabBase,
	}
}

// RunSelfTest exercises the heap and executor end to end: an allocation
// round trip through the locked heap, and a task that parks on a Waker
// and resumes once woken, driven to completion by RunUntilIdle.
func (k *Kernel) RunSelfTest() error {
	layout := kheap.Layout{Size: 64, Align: 8}
	ptr := k.Heap.Alloc(layout)
	if ptr == nil {
		return fmt.Errorf("kernel: self test allocation failed")
	}
	k.Heap.Dealloc(ptr, layout)

	resumed := false
	var waker *kexec.Waker
	k.Executor.Spawn(kexec.NewTask(func(w *kexec.Waker) kexec.Poll {
		if resumed {
			return kexec.Ready
		}
		waker = w
		return kexec.Pending
	}))

	k.Executor.RunUntilIdle()
	if k.Executor.Waiting() != 1 {
		return fmt.Errorf("kernel: self test task did not park as expected")
	}

	resumed = true
	waker.Wake()
	k.Executor.RunUntilIdle()
	if k.Executor.Waiting() != 0 || k.Executor.ReadyLen() != 0 {
		return fmt.Errorf("kernel: self test task did not complete after waking")
	}

	return nil
}
