package kexec

import (
	"io"

	"github.com/orizon-lang/corekernel/internal/klog"
)

// scancodeQueueCapacity is the capacity requested for the buffer of
// keypresses between interrupt delivery and the consuming task's next poll.
// newRing rounds it up to a power of two, so the queue holds 128 scancodes.
const scancodeQueueCapacity = 100

// ScancodeStream hands keyboard scancodes pushed by AddScancode (called
// from the platform's keyboard interrupt handler) to whichever task is
// polling it, in FIFO order. A push wakes the registered poller, if any, and
// clears the registration, so further pushes wake nobody until the poller
// registers again.
// Constructing a second ScancodeStream is a programming error: only one
// consumer can own the single registered waker slot.
type ScancodeStream struct {
	queue *ring[byte]
	waker *atomicWaker
}

var scancodeStreamConstructed bool

// NewScancodeStream builds the one-and-only ScancodeStream for this
// kernel. It panics if called more than once.
func NewScancodeStream() *ScancodeStream {
	if scancodeStreamConstructed {
		panic("kexec: NewScancodeStream must only be called once")
	}
	scancodeStreamConstructed = true

	return &ScancodeStream{
		queue: newRing[byte](scancodeQueueCapacity),
		waker: &atomicWaker{},
	}
}

// AddScancode is called from the keyboard interrupt handler. It must not
// block or allocate on the heap's slow path. A full queue drops the
// scancode and logs a warning to out rather than panicking: one dropped
// keystroke is recoverable, unlike the wake queue overflowing.
func (s *ScancodeStream) AddScancode(scancode byte, out io.Writer) {
	if !s.queue.Push(scancode) {
		klog.Warnf(out, "scancode queue full; dropping keyboard input")
		return
	}
	s.waker.wake()
}

// Poll returns the next scancode if one is already queued. Otherwise it
// registers w to be woken when one arrives and retries once, closing the
// race where a scancode is pushed between the first check and the
// registration.
func (s *ScancodeStream) Poll(w *Waker) (scancode byte, ok bool) {
	if b, ok := s.queue.Pop(); ok {
		return b, true
	}

	s.waker.register(w)

	if b, ok := s.queue.Pop(); ok {
		s.waker.take()
		return b, true
	}

	return 0, false
}
