// Package klog is a minimal logging shim for contexts that cannot assume a
// heap-backed structured logger is safe to call: a simulated interrupt
// handler, the boot banner before any console abstraction exists. It wraps
// fmt.Fprintf directly; no third-party logging library is introduced here.
package klog

import (
	"fmt"
	"io"
)

// Warnf writes a "WARNING: "-prefixed, newline-terminated message to w.
func Warnf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "WARNING: "+format+"\n", args...)
}

// Infof writes an unprefixed, newline-terminated message to w.
func Infof(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
