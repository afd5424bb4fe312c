// Command corekernel boots the heap and executor core against a simulated
// platform and runs the built-in self test, standing in for a bootloader
// handing control to a freestanding kernel image.
package main

import (
	"os"

	"github.com/orizon-lang/corekernel/internal/kernel"
	"github.com/orizon-lang/corekernel/internal/klog"
	"github.com/orizon-lang/corekernel/internal/kplatform"
)

func main() {
	platform := kplatform.NewSimPlatform(os.Stdout)

	k, err := kernel.New(os.Stdout, platform)
	if err != nil {
		klog.Warnf(os.Stderr, "kernel: failed to initialize: %v", err)
		os.Exit(1)
	}

	if err := k.Boot(); err != nil {
		klog.Warnf(os.Stderr, "kernel: boot failed: %v", err)
		os.Exit(1)
	}

	status := k.Status()
	klog.Infof(os.Stdout, "heap region: [0x%x, 0x%x)", status["heap_region_low"], status["heap_region_high"])
	klog.Infof(os.Stdout, "slab free fragments: %v", status["slab_free_fragments"])
	klog.Infof(os.Stdout, "executor: ready=%v waiting=%v", status["executor_ready"], status["executor_waiting"])
}
