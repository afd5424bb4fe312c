// Package kexec implements the kernel's interrupt-driven cooperative task
// executor: a single-threaded scheduler where pending tasks park on a
// waiting set until a Waker, typically invoked from a simulated interrupt
// handler, moves them back onto the ready queue, plus the scancode
// stream that demonstrates the pattern end to end.
package kexec

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// ring is a bounded lock-free queue based on Dmitry Vyukov's algorithm
// (per-slot sequence numbers, CAS on the enqueue/dequeue cursors), sized
// for a single consumer: one executor drains it, though multiple
// interrupt contexts may still push to it concurrently. cpu.CacheLinePad
// keeps the cursors on separate cache lines to avoid false sharing.
type ring[T any] struct {
	_       cpu.CacheLinePad
	mask    uint64
	_       cpu.CacheLinePad
	enqueue uint64
	_       cpu.CacheLinePad
	dequeue uint64
	_       cpu.CacheLinePad
	cells   []ringCell[T]
}

type ringCell[T any] struct {
	seq uint64
	val T
}

// newRing builds a ring with at least the given capacity, rounded up to
// the next power of two.
func newRing[T any](capacity uint64) *ring[T] {
	if capacity < 2 {
		capacity = 2
	}
	capPow2 := uint64(1)
	for capPow2 < capacity {
		capPow2 <<= 1
	}

	r := &ring[T]{mask: capPow2 - 1, cells: make([]ringCell[T], capPow2)}
	for i := range r.cells {
		r.cells[i].seq = uint64(i)
	}
	return r
}

// Push tries to enqueue v; it returns false if the ring is full.
func (r *ring[T]) Push(v T) bool {
	for {
		pos := atomic.LoadUint64(&r.enqueue)
		c := &r.cells[pos&r.mask]
		seq := atomic.LoadUint64(&c.seq)

		switch dif := int64(seq) - int64(pos); {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&r.enqueue, pos, pos+1) {
				c.val = v
				atomic.StoreUint64(&c.seq, pos+1)
				return true
			}
		case dif < 0:
			return false
		default:
			runtime.Gosched()
		}
	}
}

// Pop tries to dequeue the oldest value; ok is false if the ring is empty.
func (r *ring[T]) Pop() (v T, ok bool) {
	for {
		pos := atomic.LoadUint64(&r.dequeue)
		c := &r.cells[pos&r.mask]
		seq := atomic.LoadUint64(&c.seq)

		switch dif := int64(seq) - int64(pos+1); {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&r.dequeue, pos, pos+1) {
				v = c.val
				var zero T
				c.val = zero
				atomic.StoreUint64(&c.seq, pos+r.mask+1)
				return v, true
			}
		case dif < 0:
			return v, false
		default:
			runtime.Gosched()
		}
	}
}

// Empty reports whether the ring currently has nothing queued. Racy under
// concurrent producers by construction: it's a snapshot, used only for
// the idle check before halting.
func (r *ring[T]) Empty() bool {
	return atomic.LoadUint64(&r.dequeue) == atomic.LoadUint64(&r.enqueue)
}
