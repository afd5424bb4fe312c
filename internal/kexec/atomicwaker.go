package kexec

import "sync/atomic"

// atomicWaker holds at most one pending Waker, following
// futures_util::task::AtomicWaker's register/wake/take contract: a new
// register replaces whatever was previously registered, wake consumes and
// invokes whatever's registered (if anything), and take clears the slot
// without invoking it.
type atomicWaker struct {
	slot atomic.Pointer[Waker]
}

func (a *atomicWaker) register(w *Waker) {
	a.slot.Store(w)
}

func (a *atomicWaker) wake() {
	if w := a.slot.Swap(nil); w != nil {
		w.Wake()
	}
}

func (a *atomicWaker) take() {
	a.slot.Store(nil)
}
