package kplatform

import (
	"io"

	"github.com/orizon-lang/corekernel/internal/klog"
)

// ExceptionReport records one simulated CPU exception delivery.
type ExceptionReport struct {
	Kind      ExceptionKind
	ErrorCode uint64
}

// SimPlatform is a deterministic, goroutine-free stand-in for the real
// IDT/PIC/paging collaborators: interrupt-enabled state and the registered
// scancode sink are plain fields, nothing touches real hardware. Every
// test in this module that needs a Platform, and cmd/corekernel's demo
// binary, use it in place of real interrupt dispatch.
type SimPlatform struct {
	Out          io.Writer
	interrupts   bool
	halts        int
	scancodeSink func(byte)
	exceptions   []ExceptionReport
}

// NewSimPlatform builds a SimPlatform with interrupts initially enabled,
// logging warnings and exception reports to out.
func NewSimPlatform(out io.Writer) *SimPlatform {
	return &SimPlatform{Out: out, interrupts: true}
}

func (p *SimPlatform) DisableInterrupts() { p.interrupts = false }
func (p *SimPlatform) EnableInterrupts()  { p.interrupts = true }

// EnableInterruptsAndHalt simulates "sti; hlt": there is no real CPU to
// halt, so it re-enables interrupts and counts the halt, letting tests
// assert the executor actually went idle.
func (p *SimPlatform) EnableInterruptsAndHalt() {
	p.interrupts = true
	p.halts++
}

// InterruptsEnabled reports the simulated interrupt-flag state.
func (p *SimPlatform) InterruptsEnabled() bool { return p.interrupts }

// HaltCount reports how many times EnableInterruptsAndHalt has run.
func (p *SimPlatform) HaltCount() int { return p.halts }

func (p *SimPlatform) RegisterScancodeSink(sink func(byte)) {
	p.scancodeSink = sink
}

// InjectScancode simulates a keyboard interrupt firing: it delivers b to
// whatever sink RegisterScancodeSink installed, or drops it silently if
// nothing has registered one yet.
func (p *SimPlatform) InjectScancode(b byte) {
	if p.scancodeSink != nil {
		p.scancodeSink(b)
	}
}

// ReportException simulates a CPU exception arriving through interrupt
// dispatch: it records the report and logs via klog, without claiming to
// reproduce a real IST stack switch for conditions like a double fault
// triggered by stack overflow.
func (p *SimPlatform) ReportException(kind ExceptionKind, errorCode uint64) {
	p.exceptions = append(p.exceptions, ExceptionReport{Kind: kind, ErrorCode: errorCode})
	klog.Warnf(p.Out, "cpu exception: %s (error code %d)", kind, errorCode)
}

// Exceptions returns every exception reported so far.
func (p *SimPlatform) Exceptions() []ExceptionReport { return p.exceptions }
