// Package ksync provides the synchronization primitive the kernel core can
// use from a context that must not yield to any scheduler, including a
// simulated interrupt handler: a spinlock, not sync.Mutex.
package ksync

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// SpinLock guards a value of type T with a test-and-set spinlock. Lock
// never parks the calling goroutine on the Go scheduler, it busy-waits,
// which is what makes it safe to take from the executor's run loop and from
// a simulated interrupt callback at the same time: a sync.Mutex could
// deadlock if the lock holder is itself paused by the interrupt.
type SpinLock[T any] struct {
	_     cpu.CacheLinePad
	state atomic.Bool
	_     cpu.CacheLinePad
	value T
}

// New builds a SpinLock already holding v.
func New[T any](v T) *SpinLock[T] {
	return &SpinLock[T]{value: v}
}

// Guard holds the lock until Unlock is called. Create one per Lock call;
// it must not outlive the critical section it was acquired for.
type Guard[T any] struct {
	l *SpinLock[T]
}

// Lock spins until the lock is acquired and returns a Guard giving
// exclusive access to the wrapped value.
func (s *SpinLock[T]) Lock() *Guard[T] {
	for !s.state.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
	return &Guard[T]{l: s}
}

// TryLock attempts to acquire the lock without spinning. ok is false if the
// lock was already held.
func (s *SpinLock[T]) TryLock() (*Guard[T], bool) {
	if s.state.CompareAndSwap(false, true) {
		return &Guard[T]{l: s}, true
	}
	return nil, false
}

// Value returns a pointer to the protected value. Valid only while the
// guard that produced it is held.
func (g *Guard[T]) Value() *T { return &g.l.value }

// Unlock releases the lock. Call at most once per Guard.
func (g *Guard[T]) Unlock() {
	g.l.state.Store(false)
}
